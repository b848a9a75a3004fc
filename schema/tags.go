package schema

import (
	"strconv"
	"strings"

	"github.com/wippyai/graphwire/errors"
)

// tag is a parsed `wire:"..."` struct tag.
type tag struct {
	number  uint64
	always  bool
	zigzag  bool
	fixed   bool
	packed  bool
	counted bool
	utf16   bool
	ref     refKind
}

type refKind uint8

const (
	refNone refKind = iota
	refTable
	refUnique
	refShared
)

// parseTag parses a wire tag. The first element is the field number, or
// empty for always-present fields.
func parseTag(s string, path []string) (tag, error) {
	var t tag
	parts := strings.Split(s, ",")
	if parts[0] != "" {
		n, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil || n == 0 || n > maxFieldNumber {
			return t, errors.New(errors.PhaseCompile, errors.KindInvalidData).
				Path(path...).
				Cause(err).
				Detail("invalid field number %q", parts[0]).
				Build()
		}
		t.number = n
	}
	for _, opt := range parts[1:] {
		switch opt {
		case "always":
			t.always = true
		case "zigzag":
			t.zigzag = true
		case "fixed":
			t.fixed = true
		case "packed":
			t.packed = true
		case "counted":
			t.counted = true
		case "utf16":
			t.utf16 = true
		case "ref":
			t.ref = refTable
		case "unique":
			t.ref = refUnique
		case "shared":
			t.ref = refShared
		case "":
		default:
			return t, errors.New(errors.PhaseCompile, errors.KindInvalidData).
				Path(path...).
				Detail("unknown wire option %q", opt).
				Build()
		}
	}
	if t.always == (t.number != 0) {
		return t, errors.New(errors.PhaseCompile, errors.KindInvalidData).
			Path(path...).
			Detail("field needs either a number or the always option: %q", s).
			Build()
	}
	return t, nil
}

// maxFieldNumber is the largest field number a tag varint can carry.
const maxFieldNumber = 1<<61 - 1

func (t tag) String() string {
	var parts []string
	if t.number != 0 {
		parts = append(parts, strconv.FormatUint(t.number, 10))
	} else {
		parts = append(parts, "", "always")
	}
	for _, o := range []struct {
		set  bool
		name string
	}{
		{t.zigzag, "zigzag"},
		{t.fixed, "fixed"},
		{t.packed, "packed"},
		{t.counted, "counted"},
		{t.utf16, "utf16"},
		{t.ref == refTable, "ref"},
		{t.ref == refUnique, "unique"},
		{t.ref == refShared, "shared"},
	} {
		if o.set {
			parts = append(parts, o.name)
		}
	}
	return strings.Join(parts, ",")
}
