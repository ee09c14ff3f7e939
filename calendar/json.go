package calendar

// MarshalText implements encoding.TextMarshaler using the canonical
// YYYY-MM-DD form. Combined with UnmarshalText this makes Date usable
// directly as a JSON value or map key.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.Format()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with the same strict
// parsing as Parse.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
