package passcheck

import "unicode"

// Strength is a coarse password quality band.
type Strength int

const (
	Weak Strength = iota
	Fair
	Good
	Strong
)

func (s Strength) String() string {
	switch s {
	case Weak:
		return "weak"
	case Fair:
		return "fair"
	case Good:
		return "good"
	default:
		return "strong"
	}
}

// Score rates a password on length and character-class variety. It is a
// heuristic for warning users, not an entropy measurement; the packer
// accepts any password.
func Score(password string) Strength {
	score := 0
	if len(password) >= 8 {
		score++
	}
	if len(password) >= 12 {
		score++
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if lower && upper {
		score++
	}
	if digit {
		score++
	}
	if symbol {
		score++
	}

	switch {
	case score <= 1:
		return Weak
	case score == 2:
		return Fair
	case score == 3 || score == 4:
		return Good
	default:
		return Strong
	}
}
