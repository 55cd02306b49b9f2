package storefront

// MinQuantity is the smallest quantity a stepper allows.
const MinQuantity = 1

// Stepper is a quantity input clamped to [MinQuantity, max]. A max of 0
// means unbounded.
type Stepper struct {
	value int
	max   int
}

// NewStepper starts at MinQuantity.
func NewStepper(max int) *Stepper {
	if max < 0 {
		max = 0
	}
	return &Stepper{value: MinQuantity, max: max}
}

// Value returns the current quantity.
func (s *Stepper) Value() int { return s.value }

// Max returns the upper bound, 0 if unbounded.
func (s *Stepper) Max() int { return s.max }

// Inc adds one unless at max.
func (s *Stepper) Inc() { s.Set(s.value + 1) }

// Dec subtracts one unless at MinQuantity.
func (s *Stepper) Dec() { s.Set(s.value - 1) }

// Set assigns n, clamped.
func (s *Stepper) Set(n int) {
	if n < MinQuantity {
		n = MinQuantity
	}
	if s.max > 0 && n > s.max {
		n = s.max
	}
	s.value = n
}
