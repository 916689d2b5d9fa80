package ghost

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"
)

// FramePrefix is the literal ASCII marker that opens every Ghost frame (spec
// §4.4: `"Ghost" | payload_length | type | body`).
const FramePrefix = "Ghost"

// checksumLen truncates the SHA3-256 transport checksum to 4 bytes, the same
// truncation the handshake/envelope layer this is grounded on uses for its
// own payload checksum — enough to catch corruption without growing the
// header, while remaining a distinct hash family from the SHA-256 used for
// consensus hashing.
const checksumLen = 4

func checksum(payload []byte) [checksumLen]byte {
	sum := sha3.Sum256(payload)
	var out [checksumLen]byte
	copy(out[:], sum[:checksumLen])
	return out
}

// SessionKey is the 32-byte AES-256 key derived by an SRP-6a handshake.
type SessionKey [32]byte

// EncryptPayload seals plaintext under key with a fresh random nonce
// prepended to the ciphertext, so the receiver never has to coordinate
// nonces out of band (spec §4.4: "a per-frame IV / nonce prepended").
func EncryptPayload(key SessionKey, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptPayload reverses EncryptPayload, reading the nonce back off the
// front of ciphertext.
func DecryptPayload(key SessionKey, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ghost: ciphertext shorter than nonce")
	}
	nonce, body := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}

// WriteFrame serializes and writes msg to w. key is nil for the cleartext
// handshake frames (spec §4.4: "Handshake frames ... travel in cleartext
// because the session key does not yet exist"); any other message must be
// encrypted.
func WriteFrame(w io.Writer, msg Message, key *SessionKey) error {
	body := EncodeBody(msg.Params)

	wire := body
	if key != nil {
		enc, err := EncryptPayload(*key, body)
		if err != nil {
			return err
		}
		wire = enc
	}

	sum := checksum(wire)
	header := fmt.Sprintf("%s|%d|%s|%s|", FramePrefix, len(wire), msg.Type, hex.EncodeToString(sum[:]))

	if _, err := w.Write([]byte(header)); err != nil {
		return err
	}
	_, err := w.Write(wire)
	return err
}

// ReadFrame reads exactly one Ghost frame from r and returns the decoded
// message. key is nil to read a cleartext handshake frame.
func ReadFrame(r io.Reader, key *SessionKey) (Message, error) {
	prefix, err := readUntil(r, '|')
	if err != nil {
		return Message{}, err
	}
	if prefix != FramePrefix {
		return Message{}, fmt.Errorf("ghost: bad frame prefix %q", prefix)
	}

	lengthStr, err := readUntil(r, '|')
	if err != nil {
		return Message{}, err
	}
	var length int
	if _, err := fmt.Sscanf(lengthStr, "%d", &length); err != nil {
		return Message{}, fmt.Errorf("ghost: bad payload length %q", lengthStr)
	}
	if length < 0 {
		return Message{}, fmt.Errorf("ghost: negative payload length")
	}

	msgType, err := readUntil(r, '|')
	if err != nil {
		return Message{}, err
	}

	checksumHex, err := readUntil(r, '|')
	if err != nil {
		return Message{}, err
	}
	wantSum, err := hex.DecodeString(checksumHex)
	if err != nil || len(wantSum) != checksumLen {
		return Message{}, fmt.Errorf("ghost: bad checksum field %q", checksumHex)
	}

	wire := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, wire); err != nil {
			return Message{}, fmt.Errorf("ghost: truncated body: %w", err)
		}
	}

	gotSum := checksum(wire)
	if !bytes.Equal(wantSum, gotSum[:]) {
		return Message{}, fmt.Errorf("ghost: checksum mismatch")
	}

	body := wire
	if key != nil {
		dec, err := DecryptPayload(*key, wire)
		if err != nil {
			return Message{}, fmt.Errorf("ghost: decrypt: %w", err)
		}
		body = dec
	}

	params, err := DecodeBody(body)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Params: params}, nil
}

// readUntil reads bytes from r one at a time up to and excluding delim.
// Header fields are short (a handful of ASCII bytes), so a byte-at-a-time
// scan keeps the framing code simple without needing a buffered reader
// contract from callers.
func readUntil(r io.Reader, delim byte) (string, error) {
	var buf bytes.Buffer
	one := make([]byte, 1)
	for {
		if _, err := io.ReadFull(r, one); err != nil {
			return "", err
		}
		if one[0] == delim {
			return buf.String(), nil
		}
		buf.WriteByte(one[0])
	}
}
