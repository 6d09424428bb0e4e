package app

import (
	"context"

	"eduflex-video-service/internal/domain"
)

// CatalogService covers the teacher-side authoring flow and catalog reads.
type CatalogService struct {
	catalog VideoCatalog
}

func NewCatalogService(catalog VideoCatalog) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// Upload validates a draft and stores it. The catalog itself never rejects
// input; malformed drafts are caught here before it is touched.
func (s *CatalogService) Upload(ctx context.Context, draft domain.VideoDraft) (domain.Video, error) {
	if err := draft.Validate(); err != nil {
		return domain.Video{}, err
	}
	return s.catalog.AddVideo(ctx, draft)
}

// Video looks up one video by id.
func (s *CatalogService) Video(ctx context.Context, videoID string) (domain.Video, error) {
	return s.catalog.GetVideo(ctx, videoID)
}

// Videos lists the catalog in creation order.
func (s *CatalogService) Videos(ctx context.Context) ([]domain.Video, error) {
	return s.catalog.ListVideos(ctx)
}

// VideosByTeacher lists a teacher's own uploads in creation order.
func (s *CatalogService) VideosByTeacher(ctx context.Context, teacherID string) ([]domain.Video, error) {
	videos, err := s.catalog.ListVideos(ctx)
	if err != nil {
		return nil, err
	}
	own := make([]domain.Video, 0, len(videos))
	for _, v := range videos {
		if v.TeacherID == teacherID {
			own = append(own, v)
		}
	}
	return own, nil
}
