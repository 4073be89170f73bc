// errors.go defines the public error kinds for the melpe package (spec §7).

package melpe

import "fmt"

// ConfigError reports an unsupported rate, unsupported bit density, or an
// invalid combination of mode and rate, detected at session construction.
// A session is never constructed when this is returned (spec §7).
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "melpe: config error: " + e.Reason
}

// ShortInputError reports that a one-shot decode call received fewer
// bytes than a full coded unit. Decoder.Process never returns this — it
// retains the partial buffer and returns zero samples instead (spec §7);
// no function in this package currently returns ShortInputError.
type ShortInputError struct {
	Have, Need int
}

func (e *ShortInputError) Error() string {
	return fmt.Sprintf("melpe: short input: have %d bytes, need %d", e.Have, e.Need)
}

// InternalInvariantViolation reports that inverse quantization produced a
// gain or LSF value outside its legal range. Per spec §7 this must be
// impossible by construction; if it ever arises the codebooks are
// corrupt and the session that raised it must be considered poisoned and
// discarded.
type InternalInvariantViolation struct {
	Detail string
}

func (e *InternalInvariantViolation) Error() string {
	return "melpe: internal invariant violation: " + e.Detail
}
