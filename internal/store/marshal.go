package store

import (
	"github.com/roach88/criteria/internal/bind"
)

// marshalParams renders params as canonical JSON for debug logs.
// Values that cannot be encoded are reported inline instead of failing
// the statement.
func marshalParams(params []bind.Param) string {
	data, err := bind.MarshalCanonical(params)
	if err != nil {
		return "<unencodable: " + err.Error() + ">"
	}
	return string(data)
}
