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
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
)

// WriterOptions allows to influence the way a PDF file is generated.
type WriterOptions struct {
	// Version is the PDF version of the file.  The default is PDF 1.7.
	Version Version

	// ID is the file identifier.  If this is nil, a random identifier
	// is generated.  Otherwise ID must have length 2.
	ID [][]byte

	// UserPassword is needed to open the document.
	UserPassword string

	// OwnerPassword gives full access to the document.
	OwnerPassword string

	// UserPermissions lists the operations which are allowed with user
	// access.  This is only used for encrypted files.
	UserPermissions Perm

	// Cipher and KeyLength select the encryption algorithm.  If Cipher
	// is 0, the strongest algorithm supported by the PDF version is used.
	Cipher    Cipher
	KeyLength int
}

// Writer represents a PDF file open for writing.
//
// If a user password or an owner password is set in the options, all
// strings and streams (except for XML metadata streams) are encrypted
// using the standard security handler.
type Writer struct {
	// Version is the PDF version used in this file.
	Version Version

	// Trailer holds the entries of the trailer dictionary which are not
	// managed by the Writer, for example Root and Info.
	Trailer Dict

	w       *Archive
	xref    map[uint32]int64
	nextRef uint32
	id      [][]byte

	sec   *SecurityHandler
	crypt CryptoHandler

	closed bool
}

// NewWriter prepares a PDF file for writing.  The header of the PDF file
// is written immediately.
func NewWriter(w io.Writer, opt *WriterOptions) (*Writer, error) {
	if opt == nil {
		opt = &WriterOptions{}
	}

	version := opt.Version
	if version == 0 {
		version = V1_7
	}
	versionString, err := version.ToString()
	if err != nil {
		return nil, err
	}

	id := opt.ID
	if id == nil {
		buf := make([]byte, 16)
		_, err := rand.Read(buf)
		if err != nil {
			return nil, err
		}
		id = [][]byte{buf, buf}
	} else if len(id) != 2 {
		return nil, errors.New("file identifier must have two elements")
	}

	pdf := &Writer{
		Version: version,
		Trailer: Dict{},

		w:       NewArchive(w),
		xref:    make(map[uint32]int64),
		nextRef: 1,
		id:      id,
	}

	if opt.UserPassword != "" || opt.OwnerPassword != "" {
		secOpt := &SecurityOptions{
			ID:            id[0],
			UserPassword:  opt.UserPassword,
			OwnerPassword: opt.OwnerPassword,
			Permissions:   opt.UserPermissions,
			Cipher:        opt.Cipher,
			KeyLength:     opt.KeyLength,
		}
		if secOpt.Cipher == 0 {
			secOpt.Cipher, secOpt.KeyLength = defaultCipher(version)
		}
		sec, err := NewSecurityHandler(secOpt)
		if err != nil {
			return nil, err
		}
		if version < sec.minVersion() {
			return nil, &NotSupportedError{
				Feature: fmt.Sprintf("%s-%d encryption in PDF %s",
					secOpt.Cipher, secOpt.KeyLength, version),
			}
		}
		crypt, err := sec.CryptoHandler()
		if err != nil {
			return nil, err
		}
		pdf.sec = sec
		pdf.crypt = crypt
	}

	err = pdf.w.Printf("%%PDF-%s\n%%\x80\x80\x80\x80\n", versionString)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

// defaultCipher returns the strongest encryption scheme supported by a
// PDF version.
func defaultCipher(version Version) (Cipher, int) {
	switch {
	case version >= V2_0:
		return CipherAES, 256
	case version >= V1_6:
		return CipherAES, 128
	case version >= V1_4:
		return CipherRC4, 128
	default:
		return CipherRC4, 40
	}
}

// Create creates the named PDF file and opens it for output.  If a previous
// file with the same name exists, it is overwritten.  After writing is
// complete, Close() must be called to write the trailer and to close the
// underlying file.
func Create(name string, opt *WriterOptions) (*Writer, error) {
	fd, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(fd, opt)
	if err != nil {
		fd.Close()
		return nil, err
	}
	return w, nil
}

// SecurityHandler returns the security handler used to encrypt the file,
// or nil if the file is not encrypted.
func (pdf *Writer) SecurityHandler() *SecurityHandler {
	return pdf.sec
}

// ID returns the file identifier.
func (pdf *Writer) ID() [][]byte {
	return pdf.id
}

// Alloc allocates an object number for an indirect object.
func (pdf *Writer) Alloc() Reference {
	ref := NewReference(pdf.nextRef, 0)
	pdf.nextRef++
	return ref
}

// Put writes obj to the file, as the indirect object ref.  The reference
// must have been allocated using Alloc, and every reference can only be
// used once.
func (pdf *Writer) Put(ref Reference, obj Object) error {
	if pdf.closed {
		return errClosed
	}
	num := ref.Number()
	if num == 0 || num >= pdf.nextRef || ref.Generation() != 0 {
		return fmt.Errorf("invalid reference %s", ref)
	}
	if _, seen := pdf.xref[num]; seen {
		return fmt.Errorf("object %s already written", ref)
	}

	pos := pdf.w.Pos()
	if obj == nil {
		// missing objects are treated as null
		pdf.xref[num] = -1
		return nil
	}

	var enc *Encryptor
	if pdf.crypt != nil {
		enc = NewEncryptor(pdf.crypt, ref)
	}

	err := pdf.w.Printf("%d %d obj\n", num, ref.Generation())
	if err != nil {
		return err
	}
	err = obj.PDF(pdf.w, enc)
	if err != nil {
		return err
	}
	err = pdf.w.WriteString("\nendobj\n")
	if err != nil {
		return err
	}

	pdf.xref[num] = pos
	return nil
}

// Close writes the cross-reference table and the trailer.  If the
// underlying io.Writer has a Close() method, it is called as well.
func (pdf *Writer) Close() error {
	if pdf.closed {
		return errClosed
	}
	pdf.closed = true

	if _, ok := pdf.Trailer["Root"].(Reference); !ok {
		tracer().Infof("writing PDF file without document catalog")
	}

	trailer := make(Dict, len(pdf.Trailer)+3)
	for key, val := range pdf.Trailer {
		trailer[key] = val
	}
	trailer["Size"] = Integer(pdf.nextRef)
	if pdf.Version >= V1_1 {
		trailer["ID"] = Array{String(pdf.id[0]), String(pdf.id[1])}
	}
	if pdf.sec != nil {
		trailer["Encrypt"] = pdf.sec.AsDict()
	}

	xRefPos := pdf.w.Pos()
	err := pdf.writeXRefTable(trailer)
	if err != nil {
		return err
	}
	err = pdf.w.Printf("\nstartxref\n%d\n%%%%EOF\n", xRefPos)
	if err != nil {
		return err
	}

	tracer().Debugf("wrote %d objects, %d bytes", pdf.nextRef-1, pdf.w.Pos())

	if closer, ok := pdf.w.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (pdf *Writer) writeXRefTable(trailer Dict) error {
	err := pdf.w.Printf("xref\n0 %d\n", pdf.nextRef)
	if err != nil {
		return err
	}
	for i := uint32(0); i < pdf.nextRef; i++ {
		pos, ok := pdf.xref[i]
		if ok && pos >= 0 {
			err = pdf.w.Printf("%010d %05d n\r\n", pos, 0)
		} else {
			// free object
			err = pdf.w.WriteString("0000000000 65535 f\r\n")
		}
		if err != nil {
			return err
		}
	}

	err = pdf.w.WriteString("trailer\n")
	if err != nil {
		return err
	}

	// The trailer, including the encryption dictionary, is never encrypted.
	return trailer.PDF(pdf.w, nil)
}
