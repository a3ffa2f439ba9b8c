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
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"crypto/rc4"
	"fmt"
	"io"
)

// CryptoHandler encrypts and decrypts the strings and streams of a PDF file.
// The key used depends on the object which the data belongs to.
type CryptoHandler interface {
	// EncryptContent returns the encrypted version of data, which is part
	// of the object ref.  The data is not modified.
	EncryptContent(ref Reference, data []byte) ([]byte, error)

	// DecryptContent reverses EncryptContent.  The data is not modified.
	DecryptContent(ref Reference, data []byte) ([]byte, error)
}

// Cipher denotes the type of encryption used in a PDF file.
type Cipher int

const (
	// CipherRC4 indicates that RC4 encryption is used.  This corresponds
	// to the security handler versions 1 and 2, and to the StdCF crypt
	// filter with a CFM value of V2.
	CipherRC4 Cipher = iota + 1

	// CipherAES indicates that AES encryption in CBC mode is used.  This
	// corresponds to the StdCF crypt filter with a CFM value of AESV2
	// (128 bit keys) or AESV3 (256 bit keys).
	CipherAES
)

func (c Cipher) String() string {
	switch c {
	case CipherRC4:
		return "RC4"
	case CipherAES:
		return "AES"
	default:
		return fmt.Sprintf("pdf.Cipher(%d)", int(c))
	}
}

// StdCryptoHandler implements the encryption algorithm of the standard
// security handler ("Algorithm 1" and "Algorithm 1.A" in ISO 32000).
type StdCryptoHandler struct {
	cipher Cipher
	key    []byte

	// rand is the source for AES initialisation vectors.
	rand io.Reader
}

// NewCryptoHandler returns a crypto handler which uses the given cipher
// and file encryption key.
//
// RC4 keys must be between 5 and 16 bytes long.  AES keys must be 16 bytes
// (AESV2) or 32 bytes (AESV3) long.  For keys shorter than 32 bytes, a
// separate key is derived for every object.
func NewCryptoHandler(c Cipher, key []byte) (*StdCryptoHandler, error) {
	switch c {
	case CipherRC4:
		if len(key) < 5 || len(key) > 16 {
			return nil, fmt.Errorf("invalid RC4 key length %d", len(key))
		}
	case CipherAES:
		if len(key) != 16 && len(key) != 32 {
			return nil, fmt.Errorf("invalid AES key length %d", len(key))
		}
	default:
		return nil, fmt.Errorf("unknown cipher %s", c)
	}
	return &StdCryptoHandler{
		cipher: c,
		key:    append([]byte(nil), key...),
		rand:   rand.Reader,
	}, nil
}

// Cipher returns the cipher used by the handler.
func (h *StdCryptoHandler) Cipher() Cipher {
	return h.cipher
}

// objectKey returns the key used to encrypt data belonging to ref.
func (h *StdCryptoHandler) objectKey(ref Reference) []byte {
	if len(h.key) == 32 {
		return h.key
	}

	hash := md5.New()
	hash.Write(h.key)
	num := ref.Number()
	gen := ref.Generation()
	hash.Write([]byte{
		byte(num), byte(num >> 8), byte(num >> 16),
		byte(gen), byte(gen >> 8)})
	if h.cipher == CipherAES {
		hash.Write([]byte("sAlT"))
	}
	l := len(h.key) + 5
	if l > 16 {
		l = 16
	}
	return hash.Sum(nil)[:l]
}

// EncryptContent implements the [CryptoHandler] interface.
//
// For AES, the output consists of a random 16 byte initialisation vector,
// followed by the encrypted data and padding.
func (h *StdCryptoHandler) EncryptContent(ref Reference, data []byte) ([]byte, error) {
	key := h.objectKey(ref)

	switch h.cipher {
	case CipherAES:
		n := len(data)
		nPad := 16 - n%16
		out := make([]byte, 16+n+nPad) // iv | c(data|padding)

		iv := out[:16]
		_, err := io.ReadFull(h.rand, iv)
		if err != nil {
			return nil, err
		}

		copy(out[16:], data)
		for i := 16 + n; i < len(out); i++ {
			out[i] = byte(nPad)
		}

		c, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		cbc := cipher.NewCBCEncrypter(c, iv)
		cbc.CryptBlocks(out[16:], out[16:])
		return out, nil

	default: // CipherRC4
		c, err := rc4.NewCipher(key)
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(data))
		c.XORKeyStream(out, data)
		return out, nil
	}
}

// DecryptContent implements the [CryptoHandler] interface.
func (h *StdCryptoHandler) DecryptContent(ref Reference, data []byte) ([]byte, error) {
	key := h.objectKey(ref)

	switch h.cipher {
	case CipherAES:
		if len(data) < 32 || len(data)%16 != 0 {
			return nil, errCorruptCrypt
		}
		iv := data[:16]

		c, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(data)-16)
		cbc := cipher.NewCBCDecrypter(c, iv)
		cbc.CryptBlocks(out, data[16:])

		nPad := int(out[len(out)-1])
		if nPad < 1 || nPad > 16 {
			return nil, errCorruptCrypt
		}
		for _, b := range out[len(out)-nPad:] {
			if int(b) != nPad {
				return nil, errCorruptCrypt
			}
		}
		return out[:len(out)-nPad], nil

	default: // CipherRC4
		c, err := rc4.NewCipher(key)
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(data))
		c.XORKeyStream(out, data)
		return out, nil
	}
}

// Encryptor encrypts the strings and the stream data of one object in a
// PDF file.
type Encryptor struct {
	handler CryptoHandler
	ref     Reference
}

// NewEncryptor returns an encryptor for the object ref.
func NewEncryptor(handler CryptoHandler, ref Reference) *Encryptor {
	return &Encryptor{
		handler: handler,
		ref:     ref,
	}
}

// Ref returns the reference of the object the encryptor belongs to.
func (e *Encryptor) Ref() Reference {
	return e.ref
}

// Encrypt returns the encrypted version of data.  The input is not
// modified.  Empty input gives empty output, without calling the crypto
// handler.
func (e *Encryptor) Encrypt(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	return e.handler.EncryptContent(e.ref, data)
}
