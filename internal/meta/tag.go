package meta

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errTagSyntax = errors.New("bad syntax for struct tag")
	errTagValue  = errors.New("bad syntax for struct tag value")
)

type tagPair struct {
	Key   string
	Value string
}

// parseTag splits a struct tag into its key:"value" pairs. Unlike
// reflect.StructTag.Lookup it reports malformed input instead of silently
// ignoring the rest of the tag.
func parseTag(tag string) ([]tagPair, error) {
	var pairs []tagPair

	for {
		tag = strings.TrimLeft(tag, " ")
		if tag == "" {
			return pairs, nil
		}

		i := 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}

		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			return nil, errTagSyntax
		}

		key := tag[:i]
		tag = tag[i+1:]

		// scan the quoted string to find the value
		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}

		if i >= len(tag) {
			return nil, errTagValue
		}

		value, err := strconv.Unquote(tag[:i+1])
		if err != nil {
			return nil, errTagValue
		}

		pairs = append(pairs, tagPair{Key: key, Value: value})
		tag = tag[i+1:]
	}
}
