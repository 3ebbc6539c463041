package calculator

import "fmt"

// ValidateRate checks that a commission percentage lies in [0, 100].
func ValidateRate(rate int) error {
	if rate < 0 || rate > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidRate, rate)
	}
	return nil
}

// Fee splits gross revenue into the platform commission and the counterparty net amount.
//
//	fee = floor(gross × rate / 100)
//	net = gross − fee
//
// so fee + net == gross for every input. The product is taken in two parts to
// stay within int64 for any valid gross.
func Fee(gross int64, rate int) (fee, net int64, err error) {
	if err := ValidateRate(rate); err != nil {
		return 0, 0, err
	}
	if gross < 0 {
		return 0, 0, fmt.Errorf("%w: negative gross %d", ErrInvalidPrice, gross)
	}

	r := int64(rate)
	fee = (gross/100)*r + (gross%100)*r/100
	net = gross - fee
	return fee, net, nil
}
