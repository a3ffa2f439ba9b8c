// seehuhn.de/go/pdfcore - PDF object, stream and font table support
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdf

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Object represents an object in a PDF file.  The set of object types is
// closed: [Array], [Bool], [Dict], [Integer], [Name], [Null], [Real],
// [Reference], [*Stream], and [String].  A Go nil value is written as the
// PDF null object.
type Object interface {
	// Kind returns the type of the object.
	Kind() Kind

	// PDF writes the PDF file representation of the object to w.
	// If enc is not nil, strings (and the data of streams) are
	// encrypted.
	PDF(w io.Writer, enc *Encryptor) error

	clone(visited map[uintptr]bool) Object
}

// Kind identifies the type of a PDF object.
type Kind int

// These are the possible values of Kind.
const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindReal
	KindString
	KindName
	KindArray
	KindDict
	KindReference
	KindStream
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindName:
		return "name"
	case KindArray:
		return "array"
	case KindDict:
		return "dictionary"
	case KindReference:
		return "reference"
	case KindStream:
		return "stream"
	default:
		return "pdf.Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// KindOf returns the kind of obj.  A nil object has kind KindNull.
func KindOf(obj Object) Kind {
	if obj == nil {
		return KindNull
	}
	return obj.Kind()
}

// Null represents the null object in a PDF file.
type Null struct{}

// Kind implements the [Object] interface.
func (Null) Kind() Kind { return KindNull }

// PDF implements the [Object] interface.
func (Null) PDF(w io.Writer, _ *Encryptor) error {
	_, err := w.Write([]byte("null"))
	return err
}

func (x Null) clone(map[uintptr]bool) Object { return x }

// Bool represents a boolean value in a PDF file.
type Bool bool

// Kind implements the [Object] interface.
func (Bool) Kind() Kind { return KindBool }

// PDF implements the [Object] interface.
func (x Bool) PDF(w io.Writer, _ *Encryptor) error {
	var s string
	if x {
		s = "true"
	} else {
		s = "false"
	}
	_, err := w.Write([]byte(s))
	return err
}

func (x Bool) clone(map[uintptr]bool) Object { return x }

// Integer represents an integer constant in a PDF file.
type Integer int64

// Kind implements the [Object] interface.
func (Integer) Kind() Kind { return KindInteger }

// PDF implements the [Object] interface.
func (x Integer) PDF(w io.Writer, _ *Encryptor) error {
	s := strconv.FormatInt(int64(x), 10)
	_, err := w.Write([]byte(s))
	return err
}

func (x Integer) clone(map[uintptr]bool) Object { return x }

// Real represents an real number in a PDF file.
type Real float64

// Kind implements the [Object] interface.
func (Real) Kind() Kind { return KindReal }

// PDF implements the [Object] interface.
func (x Real) PDF(w io.Writer, _ *Encryptor) error {
	s := strconv.FormatFloat(float64(x), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s = s + "."
	}
	_, err := w.Write([]byte(s))
	return err
}

func (x Real) clone(map[uintptr]bool) Object { return x }

// String represents a raw string in a PDF file.  The character set encoding,
// if any, is determined by the context.
type String []byte

// Kind implements the [Object] interface.
func (String) Kind() Kind { return KindString }

// PDF implements the [Object] interface.
// Strings are written in literal form, unless the hexadecimal form is
// shorter.
func (x String) PDF(w io.Writer, enc *Encryptor) error {
	l := []byte(x)

	if enc != nil {
		encrypted, err := enc.Encrypt(l)
		if err != nil {
			return err
		}
		l = encrypted
	}

	level := 0
	for _, c := range l {
		if c == '(' {
			level++
		} else if c == ')' {
			level--
			if level < 0 {
				break
			}
		}
	}
	balanced := level == 0

	var funny []int
	for i, c := range l {
		if c < 32 || c == '\\' || c > 126 ||
			!balanced && (c == '(' || c == ')') {
			funny = append(funny, i)
		}
	}
	n := len(l)

	buf := &bytes.Buffer{}
	if 3*len(funny) <= n {
		buf.WriteString("(")
		pos := 0
		for _, i := range funny {
			if pos < i {
				buf.Write(l[pos:i])
			}
			c := l[i]
			switch c {
			case '\r':
				buf.WriteString(`\r`)
			case '\n':
				buf.WriteString(`\n`)
			case '\t':
				buf.WriteString(`\t`)
			case '\b':
				buf.WriteString(`\b`)
			case '\f':
				buf.WriteString(`\f`)
			case '(':
				buf.WriteString(`\(`)
			case ')':
				buf.WriteString(`\)`)
			case '\\':
				buf.WriteString(`\\`)
			default:
				fmt.Fprintf(buf, `\%03o`, c)
			}
			pos = i + 1
		}
		if pos < n {
			buf.Write(l[pos:n])
		}
		buf.WriteString(")")
	} else {
		fmt.Fprintf(buf, "<%x>", l)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func (x String) clone(map[uintptr]bool) Object {
	if x == nil {
		return x
	}
	return append(String{}, x...)
}

// Name represents a name object in a PDF file.
type Name string

// Kind implements the [Object] interface.
func (Name) Kind() Kind { return KindName }

// PDF implements the [Object] interface.
func (x Name) PDF(w io.Writer, _ *Encryptor) error {
	l := []byte(x)

	buf := &bytes.Buffer{}
	buf.WriteByte('/')
	for _, c := range l {
		if c < 0x21 || c > 0x7e || c == '#' || isDelimiter(c) {
			fmt.Fprintf(buf, "#%02x", c)
		} else {
			buf.WriteByte(c)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (x Name) clone(map[uintptr]bool) Object { return x }

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// Array represent an array of objects in a PDF file.
type Array []Object

// Kind implements the [Object] interface.
func (Array) Kind() Kind { return KindArray }

func (x Array) String() string {
	res := []string{}
	res = append(res, "Array")
	res = append(res, strconv.FormatInt(int64(len(x)), 10)+" elements")
	return "<" + strings.Join(res, ", ") + ">"
}

// PDF implements the [Object] interface.
func (x Array) PDF(w io.Writer, enc *Encryptor) error {
	_, err := w.Write([]byte("["))
	if err != nil {
		return err
	}
	for i, val := range x {
		if i > 0 {
			_, err := w.Write([]byte(" "))
			if err != nil {
				return err
			}
		}
		err = writeObject(w, val, enc)
		if err != nil {
			return err
		}
	}
	_, err = w.Write([]byte("]"))
	return err
}

// Dict represent a Dictionary object in a PDF file.
type Dict map[Name]Object

// Kind implements the [Object] interface.
func (Dict) Kind() Kind { return KindDict }

func (x Dict) String() string {
	res := []string{}
	tp, ok := x["Type"].(Name)
	if ok {
		res = append(res, string(tp)+" Dict")
	} else {
		res = append(res, "Dict")
	}
	if len(x) != 1 {
		res = append(res, strconv.FormatInt(int64(len(x)), 10)+" entries")
	} else {
		res = append(res, "1 entry")
	}
	return "<" + strings.Join(res, ", ") + ">"
}

// PDF implements the [Object] interface.
// Keys are written in sorted order.  Entries with a nil value are omitted.
func (x Dict) PDF(w io.Writer, enc *Encryptor) error {
	if x == nil {
		_, err := w.Write([]byte("null"))
		return err
	}

	keys := make([]Name, 0, len(x))
	for key, val := range x {
		if val == nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i int, j int) bool {
		return keys[i] < keys[j]
	})

	_, err := w.Write([]byte("<<"))
	if err != nil {
		return err
	}

	for _, name := range keys {
		val := x[name]

		_, err = w.Write([]byte("\n"))
		if err != nil {
			return err
		}
		err = name.PDF(w, nil)
		if err != nil {
			return err
		}
		_, err = w.Write([]byte(" "))
		if err != nil {
			return err
		}
		err = val.PDF(w, enc)
		if err != nil {
			return err
		}
	}
	_, err = w.Write([]byte("\n>>"))
	return err
}

// GetInteger returns the integer value stored under key.
// If the entry is missing or is not an integer, 0 is returned.
func (x Dict) GetInteger(key Name) Integer {
	val, _ := x[key].(Integer)
	return val
}

// GetName returns the name stored under key.
// If the entry is missing or is not a name, "" is returned.
func (x Dict) GetName(key Name) Name {
	val, _ := x[key].(Name)
	return val
}

// Reference represents a reference to an indirect object in a PDF file.
// The lower 32 bits represent the object number, the next 16 bits the
// generation number.
type Reference uint64

// NewReference returns a new reference to the given object and generation
// number.
func NewReference(number uint32, generation uint16) Reference {
	return Reference(uint64(number) | uint64(generation)<<32)
}

// Number returns the object number of the reference.
func (x Reference) Number() uint32 {
	return uint32(x)
}

// Generation returns the generation number of the reference.
func (x Reference) Generation() uint16 {
	return uint16(x >> 32)
}

// Kind implements the [Object] interface.
func (Reference) Kind() Kind { return KindReference }

func (x Reference) String() string {
	res := []string{
		"obj_",
		strconv.FormatInt(int64(x.Number()), 10),
	}
	gen := x.Generation()
	if gen > 0 {
		res = append(res, "@", strconv.FormatUint(uint64(gen), 10))
	}
	return strings.Join(res, "")
}

// PDF implements the [Object] interface.
func (x Reference) PDF(w io.Writer, _ *Encryptor) error {
	if x>>48 != 0 {
		return fmt.Errorf("invalid reference: 0x%016x", uint64(x))
	}

	_, err := fmt.Fprintf(w, "%d %d R", x.Number(), x.Generation())
	return err
}

func (x Reference) clone(map[uintptr]bool) Object { return x }

// writeObject writes obj to w, using "null" for nil objects.
func writeObject(w io.Writer, obj Object, enc *Encryptor) error {
	if obj == nil {
		_, err := w.Write([]byte("null"))
		return err
	}
	return obj.PDF(w, enc)
}

// Format formats a PDF object as a string, in the same way as the
// it would be written to an unencrypted PDF file.
func Format(obj Object) string {
	buf := &bytes.Buffer{}
	err := writeObject(buf, obj, nil)
	if err != nil {
		return "%!(" + err.Error() + ")"
	}
	return buf.String()
}
