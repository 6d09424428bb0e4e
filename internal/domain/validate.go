package domain

import "fmt"

// Validate checks a draft before it is handed to the catalog: every question
// needs at least one non-empty option, its correct answer must be one of its
// options, and its timestamp must fall within the video.
func (d VideoDraft) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidVideo)
	}
	if d.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidVideo)
	}
	for i, q := range d.Questions {
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %d has no options", ErrInvalidVideo, i+1)
		}
		found := false
		for _, opt := range q.Options {
			if opt == "" {
				return fmt.Errorf("%w: question %d has an empty option", ErrInvalidVideo, i+1)
			}
			if opt == q.CorrectAnswer {
				found = true
			}
		}
		if !found {
			return fmt.Errorf("%w: question %d correct answer is not among its options", ErrInvalidVideo, i+1)
		}
		if q.Timestamp < 0 || q.Timestamp > d.Duration {
			return fmt.Errorf("%w: question %d timestamp outside the video", ErrInvalidVideo, i+1)
		}
	}
	return nil
}
