package services

import "time"

// SetClock replaces the time source used for magic link expiry
func (s *MagicLinkService) SetClock(now func() time.Time) {
	s.now = now
}
