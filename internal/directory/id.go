package directory

import (
	"encoding/base64"
	"strings"
)

var idStripper = strings.NewReplacer("/", "", "+", "", "=", "")

// UniversityID derives the stable id of a university: standard base64 of
// "name::country" with '/', '+' and '=' removed.
func UniversityID(name, country string) string {
	return idStripper.Replace(base64.StdEncoding.EncodeToString([]byte(name + "::" + country)))
}

// DecodeUniversityID recovers name and country from an id. Stripping is
// lossy, so decoding is best effort: ok is true only when the decoded pair
// encodes back to the same id.
func DecodeUniversityID(id string) (name, country string, ok bool) {
	raw, err := base64.RawStdEncoding.DecodeString(id)
	if err != nil {
		// a stripped '=' may leave a dangling final quantum
		if len(id)%4 == 1 {
			raw, err = base64.RawStdEncoding.DecodeString(id[:len(id)-1])
		}
		if err != nil {
			return "", "", false
		}
	}
	name, country, found := strings.Cut(string(raw), "::")
	if !found || name == "" || country == "" {
		return "", "", false
	}
	if UniversityID(name, country) != id {
		return "", "", false
	}
	return name, country, true
}
