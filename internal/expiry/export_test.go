package expiry

import "time"

func (s *Sweeper) SetClock(now func() time.Time) { s.now = now }

func (s *Sweeper) SetBatch(n int) { s.batch = n }
