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
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"crypto/rc4"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"

	"github.com/xdg-go/stringprep"
	"golang.org/x/text/encoding/charmap"
)

var errInvalidPassword = errors.New("invalid password")

// SecurityOptions describes the encryption of a new PDF file.
type SecurityOptions struct {
	// ID is the first element of the file identifier in the trailer.
	ID []byte

	// UserPassword is needed to open the document.  If this is empty,
	// the document can be opened without a password.
	UserPassword string

	// OwnerPassword gives full access to the document.  If this is
	// empty, the user password is used.
	OwnerPassword string

	// Permissions lists the operations which are allowed for users who
	// only know the user password.
	Permissions Perm

	// Cipher selects the encryption algorithm.  The default is AES.
	Cipher Cipher

	// KeyLength is the key length in bits.  RC4 supports 40 to 128 bits
	// in steps of 8, AES supports 128 and 256 bits.  The default is 128.
	KeyLength int
}

// SecurityHandler is the PDF standard security handler, which authenticates
// users via a pair of passwords.  The "user password" is used to access the
// contents of the document, the "owner password" can be used to control
// additional permissions, e.g. permission to print the document.
//
// The standard security handler is specified in section 7.6.4 of
// ISO 32000-2:2020.
type SecurityHandler struct {
	// V is the encryption algorithm version (the /V entry of the
	// encryption dictionary).
	V int

	// R is the revision of the standard security handler.
	R int

	id []byte

	// O and U are derived from the owner and user passwords; OE, UE and
	// Perms are only used for revision 6.
	O, U, OE, UE, Perms []byte

	// P is a set of flags specifying which operations shall be permitted
	// when the document is opened with user access.
	P uint32

	cipher   Cipher
	keyBytes int
	key      []byte

	// unencryptedMetaData is the negation of /EncryptMetadata, so that the
	// Go default matches the PDF default.
	unencryptedMetaData bool

	ownerAuthenticated bool
}

// NewSecurityHandler allocates a new, pre-authenticated standard security
// handler.  This is used when creating new PDF files.
//
// For revisions 4 and later, XMP metadata streams are marked as
// unencrypted.
func NewSecurityHandler(opt *SecurityOptions) (*SecurityHandler, error) {
	c := opt.Cipher
	if c == 0 {
		c = CipherAES
	}
	length := opt.KeyLength
	if length == 0 {
		length = 128
	}

	var V int
	switch {
	case c == CipherRC4 && length == 40:
		V = 1
	case c == CipherRC4 && length >= 40 && length <= 128 && length%8 == 0:
		V = 2
	case c == CipherAES && length == 128:
		V = 4
	case c == CipherAES && length == 256:
		V = 5
	default:
		return nil, &NotSupportedError{
			Feature: fmt.Sprintf("%s encryption with %d bit keys", c, length),
		}
	}

	perm := opt.Permissions
	var R int
	switch {
	case V < 2 && perm.canR2():
		R = 2
	case V <= 3:
		R = 3
	case V == 4:
		R = 4
	default:
		R = 6
	}

	userPwd := opt.UserPassword
	ownerPwd := opt.OwnerPassword
	if ownerPwd == "" {
		ownerPwd = userPwd
	}

	sec := &SecurityHandler{
		V:        V,
		R:        R,
		id:       opt.ID,
		P:        stdSecPermToP(perm),
		cipher:   c,
		keyBytes: length / 8,

		unencryptedMetaData: R >= 4,
		ownerAuthenticated:  true,
	}

	switch R {
	case 2, 3, 4:
		paddedUserPwd, err := padPasswd(userPwd)
		if err != nil {
			return nil, err
		}
		paddedOwnerPwd, err := padPasswd(ownerPwd)
		if err != nil {
			return nil, err
		}
		sec.O = sec.computeO(paddedUserPwd, paddedOwnerPwd)
		sec.key = sec.computeFileEncryptionKey(paddedUserPwd)
		sec.U = sec.computeU(sec.key)
	case 6:
		utf8UserPwd, err := utf8Passwd(userPwd)
		if err != nil {
			return nil, err
		}
		utf8OwnerPwd, err := utf8Passwd(ownerPwd)
		if err != nil {
			return nil, err
		}
		sec.key = make([]byte, 32)
		_, err = rand.Read(sec.key)
		if err != nil {
			return nil, err
		}
		sec.U, sec.UE, err = sec.computeUAndUE(utf8UserPwd)
		if err != nil {
			return nil, err
		}
		sec.O, sec.OE, err = sec.computeOAndOE(utf8OwnerPwd)
		if err != nil {
			return nil, err
		}
		sec.Perms = sec.computePerms(sec.key)
	}

	tracer().Debugf("new security handler V=%d R=%d cipher=%s", V, R, c)
	return sec, nil
}

// OpenSecurityHandler reads an encryption dictionary and tries to
// authenticate using the given passwords.  The empty password is always
// tried first.  Each password is tried as the owner password first, and then
// as the user password.  If no password matches, [ErrWrongPassword] is
// returned.
func OpenSecurityHandler(enc Dict, id []byte, passwords ...string) (*SecurityHandler, error) {
	if enc.GetName("Filter") != "Standard" {
		return nil, &NotSupportedError{
			Feature: "security handler " + Format(enc["Filter"]),
		}
	}

	V := int(enc.GetInteger("V"))
	R := int(enc.GetInteger("R"))
	sec := &SecurityHandler{V: V, R: R, id: id}

	switch V {
	case 1:
		sec.cipher = CipherRC4
		sec.keyBytes = 5
	case 2, 3:
		sec.cipher = CipherRC4
		sec.keyBytes = 5
		if length, ok := enc["Length"].(Integer); ok {
			sec.keyBytes = int(length) / 8
		}
	case 4, 5:
		cf, _ := enc["CF"].(Dict)
		stdCF, _ := cf[enc.GetName("StmF")].(Dict)
		switch stdCF.GetName("CFM") {
		case "V2":
			sec.cipher = CipherRC4
			sec.keyBytes = 16
		case "AESV2":
			sec.cipher = CipherAES
			sec.keyBytes = 16
		case "AESV3":
			sec.cipher = CipherAES
			sec.keyBytes = 32
		default:
			return nil, &NotSupportedError{
				Feature: "crypt filter " + Format(stdCF["CFM"]),
			}
		}
	default:
		return nil, &MalformedFileError{Err: fmt.Errorf("invalid Encrypt.V %d", V)}
	}
	if sec.keyBytes < 5 || sec.keyBytes > 32 {
		return nil, &MalformedFileError{Err: errors.New("invalid Encrypt.Length")}
	}

	ouLength := 32
	switch R {
	case 2, 3, 4:
		// pass
	case 6:
		ouLength = 48
	default:
		return nil, &MalformedFileError{Err: fmt.Errorf("invalid Encrypt.R %d", R)}
	}

	O, ok := enc["O"].(String)
	if !ok || len(O) < ouLength {
		return nil, &MalformedFileError{Err: errors.New("invalid Encrypt.O")}
	}
	sec.O = []byte(O[:ouLength])
	U, ok := enc["U"].(String)
	if !ok || len(U) < ouLength {
		return nil, &MalformedFileError{Err: errors.New("invalid Encrypt.U")}
	}
	sec.U = []byte(U[:ouLength])
	P, ok := enc["P"].(Integer)
	if !ok {
		return nil, &MalformedFileError{Err: errors.New("invalid Encrypt.P")}
	}
	sec.P = uint32(P)
	if emd, ok := enc["EncryptMetadata"].(Bool); ok && V >= 4 {
		sec.unencryptedMetaData = !bool(emd)
	}

	if R == 6 {
		OE, ok1 := enc["OE"].(String)
		UE, ok2 := enc["UE"].(String)
		Perms, ok3 := enc["Perms"].(String)
		if !ok1 || !ok2 || !ok3 || len(OE) != 32 || len(UE) != 32 || len(Perms) != 16 {
			return nil, &MalformedFileError{Err: errors.New("invalid Encrypt.OE/UE/Perms")}
		}
		sec.OE = []byte(OE)
		sec.UE = []byte(UE)
		sec.Perms = []byte(Perms)
	}

	for _, passwd := range append([]string{""}, passwords...) {
		if sec.authenticate(passwd) {
			return sec, nil
		}
	}
	return nil, ErrWrongPassword
}

func (sec *SecurityHandler) authenticate(passwd string) bool {
	if sec.R < 6 {
		padded, err := padPasswd(passwd)
		if err != nil {
			return false
		}
		return sec.authenticateOwner(padded) || sec.authenticateUser(padded)
	}

	prepared, err := utf8Passwd(passwd)
	if err != nil {
		return false
	}
	return sec.authenticateOwner6(prepared) || sec.authenticateUser6(prepared)
}

// Key returns the file encryption key.
func (sec *SecurityHandler) Key() []byte {
	return sec.key
}

// OwnerAuthenticated reports whether the owner password was supplied.
func (sec *SecurityHandler) OwnerAuthenticated() bool {
	return sec.ownerAuthenticated
}

// Permissions returns the operations allowed with user access.
func (sec *SecurityHandler) Permissions() Perm {
	return stdSecPToPerm(sec.R, sec.P)
}

// CryptoHandler returns a crypto handler which uses the file encryption
// key of sec.
func (sec *SecurityHandler) CryptoHandler() (*StdCryptoHandler, error) {
	return NewCryptoHandler(sec.cipher, sec.key)
}

// AsDict returns the encryption dictionary for the trailer of a PDF file.
func (sec *SecurityHandler) AsDict() Dict {
	dict := Dict{
		"Filter": Name("Standard"),
		"V":      Integer(sec.V),
		"R":      Integer(sec.R),
		"O":      String(sec.O),
		"U":      String(sec.U),
		"P":      Integer(int32(sec.P)),
	}

	switch sec.V {
	case 2:
		dict["Length"] = Integer(8 * sec.keyBytes)
	case 4:
		dict["StmF"] = Name("StdCF")
		dict["StrF"] = Name("StdCF")
		dict["CF"] = Dict{
			"StdCF": Dict{"Length": Integer(128), "CFM": Name("AESV2")},
		}
	case 5:
		dict["StmF"] = Name("StdCF")
		dict["StrF"] = Name("StdCF")
		dict["Length"] = Integer(256)
		dict["CF"] = Dict{
			"StdCF": Dict{"Length": Integer(256), "CFM": Name("AESV3")},
		}
	}

	if sec.unencryptedMetaData {
		dict["EncryptMetadata"] = Bool(false)
	}
	if sec.R == 6 {
		dict["OE"] = String(sec.OE)
		dict["UE"] = String(sec.UE)
		dict["Perms"] = String(sec.Perms)
	}
	return dict
}

// minVersion returns the earliest PDF version which supports the
// encryption scheme.
func (sec *SecurityHandler) minVersion() Version {
	switch sec.V {
	case 1:
		return V1_1
	case 2:
		return V1_4
	case 4:
		return V1_6
	default:
		return V2_0
	}
}

// Algorithm 2: compute the file encryption key for R <= 4.
func (sec *SecurityHandler) computeFileEncryptionKey(paddedUserPwd []byte) []byte {
	h := md5.New()
	h.Write(paddedUserPwd)
	h.Write(sec.O)
	h.Write([]byte{
		byte(sec.P), byte(sec.P >> 8), byte(sec.P >> 16), byte(sec.P >> 24)})
	h.Write(sec.id)
	if sec.unencryptedMetaData && sec.R >= 4 {
		h.Write([]byte{255, 255, 255, 255})
	}
	key := h.Sum(nil)

	if sec.R >= 3 {
		for i := 0; i < 50; i++ {
			h.Reset()
			h.Write(key[:sec.keyBytes])
			key = h.Sum(key[:0])
		}
	}

	return key[:sec.keyBytes]
}

// ownerKey computes the RC4 key used to encrypt the padded user password
// for the O entry.
func (sec *SecurityHandler) ownerKey(paddedOwnerPwd []byte) []byte {
	h := md5.New()
	h.Write(paddedOwnerPwd)
	sum := h.Sum(nil)
	if sec.R >= 3 {
		for i := 0; i < 50; i++ {
			h.Reset()
			h.Write(sum[:sec.keyBytes])
			sum = h.Sum(sum[:0])
		}
	}
	return sum[:sec.keyBytes]
}

// Algorithm 3: compute O.
func (sec *SecurityHandler) computeO(paddedUserPwd, paddedOwnerPwd []byte) []byte {
	rc4key := sec.ownerKey(paddedOwnerPwd)

	c, _ := rc4.NewCipher(rc4key)
	O := make([]byte, 32)
	c.XORKeyStream(O, paddedUserPwd)
	if sec.R >= 3 {
		key := make([]byte, len(rc4key))
		for i := byte(1); i <= 19; i++ {
			for j := range key {
				key[j] = rc4key[j] ^ i
			}
			c, _ = rc4.NewCipher(key)
			c.XORKeyStream(O, O)
		}
	}
	return O
}

// Algorithm 4/5: compute U.
func (sec *SecurityHandler) computeU(fileEncryptionKey []byte) []byte {
	U := make([]byte, 32)
	if sec.R == 2 {
		c, _ := rc4.NewCipher(fileEncryptionKey)
		c.XORKeyStream(U, passwdPad)
		return U
	}

	h := md5.New()
	h.Write(passwdPad)
	h.Write(sec.id)
	U = h.Sum(U[:0])
	c, _ := rc4.NewCipher(fileEncryptionKey)
	c.XORKeyStream(U, U)

	tmpKey := make([]byte, len(fileEncryptionKey))
	for i := byte(1); i <= 19; i++ {
		for j := range tmpKey {
			tmpKey[j] = fileEncryptionKey[j] ^ i
		}
		c, _ = rc4.NewCipher(tmpKey)
		c.XORKeyStream(U, U)
	}
	// The remaining 16 bytes are arbitrary padding.
	return append(U[:16], zero16...)
}

// Algorithm 6: authenticate the user password (revision 4 and earlier).
func (sec *SecurityHandler) authenticateUser(paddedUserPwd []byte) bool {
	key := sec.computeFileEncryptionKey(paddedUserPwd)
	U := sec.computeU(key)

	n := 16
	if sec.R == 2 {
		n = 32
	}
	if !bytes.Equal(U[:n], sec.U[:n]) {
		return false
	}
	sec.key = key
	return true
}

// Algorithm 7: authenticate the owner password (revision 4 and earlier).
func (sec *SecurityHandler) authenticateOwner(paddedOwnerPwd []byte) bool {
	key := sec.ownerKey(paddedOwnerPwd)

	buf := make([]byte, 32)
	copy(buf, sec.O)
	if sec.R == 2 {
		c, _ := rc4.NewCipher(key)
		c.XORKeyStream(buf, buf)
	} else {
		tmpKey := make([]byte, len(key))
		for i := 19; i >= 0; i-- {
			for j := range tmpKey {
				tmpKey[j] = key[j] ^ byte(i)
			}
			c, _ := rc4.NewCipher(tmpKey)
			c.XORKeyStream(buf, buf)
		}
	}

	if !sec.authenticateUser(buf) {
		return false
	}
	sec.ownerAuthenticated = true
	return true
}

// Algorithm 2.B: compute a hash (revision 6).
func slowHash(passwd, salt, U []byte) []byte {
	// The initial value of K is the SHA-256 hash of the password, the salt
	// and (for the owner password only) the 48-byte U string.
	h := sha256.New()
	h.Write(passwd)
	h.Write(salt)
	h.Write(U)
	K := h.Sum(nil)

	K1 := make([]byte, 64*(len(passwd)+64+len(U)))

	// Steps (a)-(d) form one round.  At least 64 rounds are performed.
	for i := 0; i < 64 || K1[len(K1)-1] > byte(i-32); i++ {
		// a) K1 is 64 repetitions of the password, K and the 48-byte user
		// key.  The user key is only included when checking the owner
		// password or creating the owner key; otherwise U is empty.
		K1 = K1[:0]
		for j := 0; j < 64; j++ {
			K1 = append(K1, passwd...)
			K1 = append(K1, K...)
			K1 = append(K1, U...)
		}

		// b) Encrypt K1 with AES-128 in CBC mode without padding.  The
		// first 16 bytes of K are the key, the next 16 bytes are the IV.
		// The result is E, stored in place of K1.
		c, _ := aes.NewCipher(K[:16])
		cbc := cipher.NewCBCEncrypter(c, K[16:32])
		// len(K1) is a multiple of 64, so no padding is needed.
		cbc.CryptBlocks(K1, K1)

		// c) Take the first 16 bytes of E as an unsigned big-endian integer
		// and compute the remainder modulo 3.
		// Since 256 = 1 (mod 3), the sum of the bytes has the same remainder.
		var rem int
		for _, b := range K1[:16] {
			rem += int(b)
		}
		rem %= 3

		// The remainder selects the next hash function:
		// 0 gives SHA-256, 1 gives SHA-384, 2 gives SHA-512.
		var h hash.Hash
		switch rem {
		case 0:
			h = sha256.New()
		case 1:
			h = sha512.New384()
		case 2:
			h = sha512.New()
		}

		// d) The hash of E is the new value of K, 32, 48 or 64 bytes long.
		h.Write(K1)
		K = h.Sum(K[:0])

		// e) From round 64 on, look at the last byte of E.  If it is
		// greater than the round number minus 32, do another round.
		//
		// f) Stop once the last byte of E is at most the round number
		// minus 32.
	}

	// The output is the first 32 bytes of the final K.
	return K[:32]
}

// Algorithm 8: compute U and UE (revision 6).
func (sec *SecurityHandler) computeUAndUE(utf8UserPwd []byte) ([]byte, []byte, error) {
	salt := make([]byte, 16)
	_, err := rand.Read(salt)
	if err != nil {
		return nil, nil, err
	}

	U := make([]byte, 0, 48)
	U = append(U, slowHash(utf8UserPwd, salt[:8], nil)...)
	U = append(U, salt...)

	key := slowHash(utf8UserPwd, salt[8:], nil)
	c, _ := aes.NewCipher(key)
	cbc := cipher.NewCBCEncrypter(c, zero16)
	UE := make([]byte, 32)
	cbc.CryptBlocks(UE, sec.key)

	return U, UE, nil
}

// Algorithm 9: compute O and OE (revision 6).
func (sec *SecurityHandler) computeOAndOE(utf8OwnerPwd []byte) ([]byte, []byte, error) {
	salt := make([]byte, 16)
	_, err := rand.Read(salt)
	if err != nil {
		return nil, nil, err
	}

	O := make([]byte, 0, 48)
	O = append(O, slowHash(utf8OwnerPwd, salt[:8], sec.U)...)
	O = append(O, salt...)

	key := slowHash(utf8OwnerPwd, salt[8:], sec.U)
	c, _ := aes.NewCipher(key)
	cbc := cipher.NewCBCEncrypter(c, zero16)
	OE := make([]byte, 32)
	cbc.CryptBlocks(OE, sec.key)

	return O, OE, nil
}

// Algorithm 10: compute Perms (revision 6).
func (sec *SecurityHandler) computePerms(fileEncryptionKey []byte) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf, sec.P)
	buf[4] = 0xFF
	buf[5] = 0xFF
	buf[6] = 0xFF
	buf[7] = 0xFF
	if sec.unencryptedMetaData {
		buf[8] = 'F'
	} else {
		buf[8] = 'T'
	}
	copy(buf[9:12], "adb")
	_, _ = rand.Read(buf[12:])

	c, _ := aes.NewCipher(fileEncryptionKey)
	c.Encrypt(buf, buf)
	return buf
}

// Algorithm 11: authenticate the user password (revision 6).
func (sec *SecurityHandler) authenticateUser6(utf8Passwd []byte) bool {
	if !bytes.Equal(slowHash(utf8Passwd, sec.U[32:40], nil), sec.U[:32]) {
		return false
	}
	key := slowHash(utf8Passwd, sec.U[40:48], nil)
	return sec.unwrapKey(key, sec.UE)
}

// Algorithm 12: authenticate the owner password (revision 6).
func (sec *SecurityHandler) authenticateOwner6(utf8Passwd []byte) bool {
	if !bytes.Equal(slowHash(utf8Passwd, sec.O[32:40], sec.U), sec.O[:32]) {
		return false
	}
	key := slowHash(utf8Passwd, sec.O[40:48], sec.U)
	if !sec.unwrapKey(key, sec.OE) {
		return false
	}
	sec.ownerAuthenticated = true
	return true
}

// unwrapKey decrypts the file encryption key from UE or OE and checks it
// against the Perms entry.
func (sec *SecurityHandler) unwrapKey(key, wrapped []byte) bool {
	c, _ := aes.NewCipher(key)
	cbc := cipher.NewCBCDecrypter(c, zero16)
	fileEncryptionKey := make([]byte, 32)
	cbc.CryptBlocks(fileEncryptionKey, wrapped)

	buf := make([]byte, 16)
	c, _ = aes.NewCipher(fileEncryptionKey)
	c.Decrypt(buf, sec.Perms)
	if string(buf[9:12]) != "adb" {
		return false
	}
	if binary.LittleEndian.Uint32(buf[:4]) != sec.P {
		return false
	}
	emdCode := byte('T')
	if sec.unencryptedMetaData {
		emdCode = 'F'
	}
	if buf[8] != emdCode {
		return false
	}

	sec.key = fileEncryptionKey
	return true
}

// utf8Passwd prepares a password for revision 6 of the security handler.
func utf8Passwd(passwd string) ([]byte, error) {
	prepped, err := stringprep.SASLprep.Prepare(passwd)
	if err != nil {
		return nil, errInvalidPassword
	}
	buf := []byte(prepped)
	if len(buf) > 127 {
		buf = buf[:127]
	}
	return buf, nil
}

// padPasswd prepares a password for revisions 2 to 4 of the security
// handler.  The result always has length 32.
func padPasswd(passwd string) ([]byte, error) {
	buf, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(passwd))
	if err != nil {
		return nil, errInvalidPassword
	}

	padded := make([]byte, 32)
	n := copy(padded, buf)
	copy(padded[n:], passwdPad)
	return padded, nil
}

var passwdPad = []byte{
	0x28, 0xBF, 0x4E, 0x5E, 0x4E, 0x75, 0x8A, 0x41,
	0x64, 0x00, 0x4E, 0x56, 0xFF, 0xFA, 0x01, 0x08,
	0x2E, 0x2E, 0x00, 0xB6, 0xD0, 0x68, 0x3E, 0x80,
	0x2F, 0x0C, 0xA9, 0xFE, 0x64, 0x53, 0x69, 0x7A,
}

var zero16 = make([]byte, 16)
