package services

import (
	"errors"
	"math"
	"net/netip"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// errInvalidJSON is returned by Decode for bodies that are not a JSON document.
var errInvalidJSON = errors.New("invalid json")

// Decode validates body and returns it as a generic JSON value.
// Fields are read lazily through the accessors below.
func Decode(body []byte) (jsoniter.Any, error) {
	if len(body) == 0 || !jsoniter.Valid(body) {
		return nil, errInvalidJSON
	}
	return jsoniter.Get(body), nil
}

// Has reports whether path exists and is not null.
func Has(v jsoniter.Any, path ...any) bool {
	switch v.Get(path...).ValueType() {
	case jsoniter.InvalidValue, jsoniter.NilValue:
		return false
	}
	return true
}

// String returns the string at path with ANSI escapes stripped and
// surrounding space trimmed. Missing, non-string and blank values report false.
func String(v jsoniter.Any, path ...any) (string, bool) {
	f := v.Get(path...)
	if f.ValueType() != jsoniter.StringValue {
		return "", false
	}
	s := Sanitize(f.ToString())
	return s, s != ""
}

// Text is String without the presence flag, for optional fields.
func Text(v jsoniter.Any, path ...any) string {
	s, _ := String(v, path...)
	return s
}

// Bool returns the boolean at path. Only real JSON booleans are accepted.
func Bool(v jsoniter.Any, path ...any) (bool, bool) {
	f := v.Get(path...)
	if f.ValueType() != jsoniter.BoolValue {
		return false, false
	}
	return f.ToBool(), true
}

// Flag is Bool without the presence flag; absent means false.
func Flag(v jsoniter.Any, path ...any) bool {
	b, _ := Bool(v, path...)
	return b
}

// Decimal returns the number at path as decimal text. JSON numbers keep the
// provider's literal; strings are accepted when they parse as a finite number.
func Decimal(v jsoniter.Any, path ...any) (string, bool) {
	f := v.Get(path...)
	switch f.ValueType() {
	case jsoniter.NumberValue, jsoniter.StringValue:
		return decimal(f.ToString())
	}
	return "", false
}

func decimal(s string) (string, bool) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return "", false
	}
	return s, true
}

// Addr returns the IP address at path. IPv4-mapped IPv6 addresses are unmapped.
func Addr(v jsoniter.Any, path ...any) (netip.Addr, bool) {
	s, ok := String(v, path...)
	if !ok {
		return netip.Addr{}, false
	}
	return ParseAddr(s)
}

// ParseAddr parses s as an IP address, dropping any IPv6 zone.
func ParseAddr(s string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.WithZone("").Unmap(), true
}

// ASNumber returns the AS number at path. Accepts 15169, "15169" and "AS15169".
func ASNumber(v jsoniter.Any, path ...any) (uint32, bool) {
	f := v.Get(path...)
	switch f.ValueType() {
	case jsoniter.NumberValue, jsoniter.StringValue:
		return ParseASN(f.ToString())
	}
	return 0, false
}

// ParseASN parses an AS number with or without the "AS" prefix.
// Zero is not a valid public AS number and is rejected.
func ParseASN(s string) (uint32, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 2 && strings.EqualFold(s[:2], "AS") {
		s = s[2:]
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint32(n), true
}

// SplitAS parses the common "AS15169 Google LLC" form.
func SplitAS(s string) (*AS, bool) {
	num, name, _ := strings.Cut(strings.TrimSpace(s), " ")
	n, ok := ParseASN(num)
	if !ok {
		return nil, false
	}
	return &AS{Number: n, Name: strings.TrimSpace(name)}, true
}

// NewAS returns an AS when number is known, otherwise nil.
func NewAS(number uint32, ok bool, name string) *AS {
	if !ok {
		return nil
	}
	return &AS{Number: number, Name: name}
}

// Score returns a risk score at path when it fits a uint16.
func Score(v jsoniter.Any, path ...any) *uint16 {
	s, ok := Decimal(v, path...)
	if !ok {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 || n > math.MaxUint16 {
		return nil
	}
	score := uint16(math.Round(n))
	return &score
}

// NewCoordinates returns coordinates when both lat and lon are valid decimals.
func NewCoordinates(lat string, latOK bool, lon string, lonOK bool) *Coordinates {
	if !latOK || !lonOK {
		return nil
	}
	return &Coordinates{Lat: lat, Lon: lon}
}

// CoordinatesAt reads a lat/lon pair from two paths of v.
func CoordinatesAt(v jsoniter.Any, latPath, lonPath []any) *Coordinates {
	lat, latOK := Decimal(v, latPath...)
	lon, lonOK := Decimal(v, lonPath...)
	return NewCoordinates(lat, latOK, lon, lonOK)
}

// SplitCoordinates parses the "lat,lon" form used by some providers.
func SplitCoordinates(s string) *Coordinates {
	latText, lonText, ok := strings.Cut(s, ",")
	if !ok {
		return nil
	}
	lat, latOK := decimal(latText)
	lon, lonOK := decimal(lonText)
	return NewCoordinates(lat, latOK, lon, lonOK)
}

// NewRegion returns a Region, or nil when every field is empty.
func NewRegion(country, region, city string, coords *Coordinates, timeZone string) *Region {
	if country == "" && region == "" && city == "" && coords == nil && timeZone == "" {
		return nil
	}
	return &Region{
		Country:     country,
		Region:      region,
		City:        city,
		Coordinates: coords,
		TimeZone:    timeZone,
	}
}
