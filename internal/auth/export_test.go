package auth

import "time"

// SetNow replaces the signer's clock.
func (s *Signer) SetNow(now func() time.Time) { s.now = now }
