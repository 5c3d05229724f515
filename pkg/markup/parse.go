package markup

import (
	"bytes"
	"encoding/xml"
	"io"
	"unicode"

	"golang.org/x/net/html/charset"

	"github.com/matzehuels/plmgraph/pkg/errors"
)

// Parse decodes a complete XML document from r.
//
// The decoder is strict: any well-formedness error, a document without a root
// element, or content after the root element closes is reported as
// [errors.ErrCodeMalformedMarkup]. No partial tree is returned on error.
// Documents declaring a non-UTF-8 encoding are transcoded while decoding.
func Parse(r io.Reader) (*Element, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	var stack []*Element
	var root *Element
	rootClosed := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, _ := decoder.InputPos()
			return nil, errors.Wrap(errors.ErrCodeMalformedMarkup, err, "decode document at line %d", line)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return nil, errors.New(errors.ErrCodeMalformedMarkup, "unexpected element %s after document end", t.Name.Local)
			}
			elem := &Element{
				Space: t.Name.Space,
				Name:  t.Name.Local,
				Attrs: convertAttrs(t.Attr),
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, elem)
			} else {
				root = elem
			}
			stack = append(stack, elem)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
				if len(stack) == 0 && root != nil {
					rootClosed = true
				}
			}

		case xml.CharData:
			if len(stack) == 0 {
				if !isIgnorableOutsideRoot(t) {
					return nil, errors.New(errors.ErrCodeMalformedMarkup, "unexpected character data outside root element")
				}
				continue
			}
			stack[len(stack)-1].Text += string(t)
		}
	}

	if root == nil {
		return nil, errors.New(errors.ErrCodeMalformedMarkup, "document has no root element")
	}

	return root, nil
}

// ParseBytes is a convenience wrapper around [Parse].
func ParseBytes(data []byte) (*Element, error) {
	return Parse(bytes.NewReader(data))
}

func convertAttrs(in []xml.Attr) []Attr {
	if len(in) == 0 {
		return nil
	}
	out := make([]Attr, len(in))
	for i, a := range in {
		out[i] = Attr{Space: a.Name.Space, Name: a.Name.Local, Value: a.Value}
	}
	return out
}

func isIgnorableOutsideRoot(data []byte) bool {
	for _, r := range string(data) {
		if r == '\uFEFF' {
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
