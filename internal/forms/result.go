package forms

const (
	InvalidFormMessage     = "Some of the data provided is invalid. Please review the highlighted fields."
	NoActionMessage        = "No action was configured for this form."
	OperationFailedMessage = "Operation failed."
	UnexpectedErrorMessage = "Unexpected error while processing the request."
)

type Palette struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

var DefaultPalette = Palette{
	Success: "#2e7d32",
	Error:   "#d32f2f",
}

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Color   string `json:"color,omitempty"`
}

func Succeeded(message string) Result {
	return Result{Success: true, Message: message}
}

func Failed(message string) Result {
	return Result{Success: false, Message: message}
}

// WithColor fills Color from the explicit value, then the palette, then
// DefaultPalette.
func (r Result) WithColor(p Palette) Result {
	if r.Success {
		r.Color = firstDefined(r.Color, p.Success, DefaultPalette.Success)
	} else {
		r.Color = firstDefined(r.Color, p.Error, DefaultPalette.Error)
	}
	return r
}

// FirstDefined returns the first value that is not the zero value.
func FirstDefined[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

func firstDefined(values ...string) string {
	return FirstDefined(values...)
}
