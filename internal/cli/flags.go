package cli

import (
	"strconv"
)

// optionalFloat is a float flag that remembers whether it was set.
type optionalFloat struct {
	value *float64
}

func (f *optionalFloat) String() string {
	if f.value == nil {
		return ""
	}
	return strconv.FormatFloat(*f.value, 'f', -1, 64)
}

func (f *optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.value = &v
	return nil
}

// optionalString is a string flag that remembers whether it was set.
type optionalString struct {
	value *string
}

func (f *optionalString) String() string {
	if f.value == nil {
		return ""
	}
	return *f.value
}

func (f *optionalString) Set(s string) error {
	f.value = &s
	return nil
}
