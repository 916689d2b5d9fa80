package p2p

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"net"

	"ghostnode.dev/node/ghost"
	"ghostnode.dev/node/srp"
)

const (
	msgHandshakeChallenge = "HANDSHAKE_CHALLENGE"
	msgHandshakeAuth      = "HANDSHAKE_AUTH"
	msgInvalidAuth        = "INVALID_AUTH"
)

func encodeBigInt(x *big.Int) string {
	return base64.StdEncoding.EncodeToString(x.Bytes())
}

func decodeBigInt(s string) (*big.Int, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// ClientHandshake performs the outbound SRP-6a authenticator role (spec
// §4.5 "Outbound (we are client)"): send identifier (plus full registration
// material the first time this peer is dialed), receive a challenge or
// immediate auth, respond with the client public value, and derive
// session_key. peerBook.LookupVerifier keyed by peername doubles as "have we
// already registered with this specific remote" — the client's own memory
// of prior registration, not the remote's.
func ClientHandshake(conn net.Conn, peername string, book PeerBook, group srp.Group) ([32]byte, error) {
	identifier := book.Identifier()
	password := book.Password()

	client, err := srp.NewClient(group, identifier, password)
	if err != nil {
		return [32]byte{}, err
	}

	salt, prime, generator, verifier, known := book.LookupVerifier(peername)
	if !known {
		salt = make([]byte, 16)
		if _, err := rand.Read(salt); err != nil {
			return [32]byte{}, err
		}
		verifier = srp.NewVerifier(group, identifier, password, salt)
		prime, generator = group.N, group.G

		msg := ghost.New(msgHandshakeAuth,
			ghost.NamedParam{Name: "IDENTIFIER", Value: ghost.StrParam(identifier)},
			ghost.NamedParam{Name: "SALT", Value: ghost.StrParam(base64.StdEncoding.EncodeToString(salt))},
			ghost.NamedParam{Name: "PRIME", Value: ghost.StrParam(encodeBigInt(prime))},
			ghost.NamedParam{Name: "GENERATOR", Value: ghost.StrParam(encodeBigInt(generator))},
			ghost.NamedParam{Name: "VERIFIER", Value: ghost.StrParam(encodeBigInt(verifier))},
			ghost.NamedParam{Name: "PUBLIC_VALUE", Value: ghost.StrParam(encodeBigInt(client.PublicValue()))},
		)
		if err := ghost.WriteFrame(conn, msg, nil); err != nil {
			return [32]byte{}, err
		}

		reply, err := ghost.ReadFrame(conn, nil)
		if err != nil {
			return [32]byte{}, err
		}
		if reply.Type == msgInvalidAuth {
			return [32]byte{}, fmt.Errorf("p2p: handshake: server rejected registration")
		}
		if reply.Type != msgHandshakeAuth {
			return [32]byte{}, fmt.Errorf("p2p: handshake: unexpected reply %q", reply.Type)
		}
		bStr, err := reply.GetString("PUBLIC_VALUE")
		if err != nil {
			return [32]byte{}, err
		}
		B, err := decodeBigInt(bStr)
		if err != nil {
			return [32]byte{}, err
		}
		key, err := client.ComputeSessionKey(salt, B)
		if err != nil {
			return [32]byte{}, err
		}
		if err := book.SaveVerifier(peername, salt, prime, generator, verifier); err != nil {
			return [32]byte{}, err
		}
		return key, nil
	}

	msg := ghost.New(msgHandshakeAuth,
		ghost.NamedParam{Name: "IDENTIFIER", Value: ghost.StrParam(identifier)},
	)
	if err := ghost.WriteFrame(conn, msg, nil); err != nil {
		return [32]byte{}, err
	}

	challenge, err := ghost.ReadFrame(conn, nil)
	if err != nil {
		return [32]byte{}, err
	}
	if challenge.Type == msgInvalidAuth {
		return [32]byte{}, fmt.Errorf("p2p: handshake: server rejected identifier")
	}
	if challenge.Type != msgHandshakeChallenge {
		return [32]byte{}, fmt.Errorf("p2p: handshake: unexpected reply %q", challenge.Type)
	}

	saltB64, err := challenge.GetString("SALT")
	if err != nil {
		return [32]byte{}, err
	}
	peerSalt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return [32]byte{}, err
	}
	bStr, err := challenge.GetString("PUBLIC_VALUE")
	if err != nil {
		return [32]byte{}, err
	}
	B, err := decodeBigInt(bStr)
	if err != nil {
		return [32]byte{}, err
	}

	key, err := client.ComputeSessionKey(peerSalt, B)
	if err != nil {
		return [32]byte{}, err
	}

	resp := ghost.New(msgHandshakeAuth,
		ghost.NamedParam{Name: "PUBLIC_VALUE", Value: ghost.StrParam(encodeBigInt(client.PublicValue()))},
	)
	if err := ghost.WriteFrame(conn, resp, nil); err != nil {
		return [32]byte{}, err
	}

	return key, nil
}

// ServerHandshake performs the inbound SRP-6a authenticator role (spec §4.5
// "Inbound (we are server)").
func ServerHandshake(conn net.Conn, book PeerBook, group srp.Group) ([32]byte, string, error) {
	first, err := ghost.ReadFrame(conn, nil)
	if err != nil {
		return [32]byte{}, "", err
	}

	identifier, err := first.GetString("IDENTIFIER")
	if err != nil {
		return [32]byte{}, "", err
	}

	if _, ok := first.Get("VERIFIER"); ok {
		saltB64, err := first.GetString("SALT")
		if err != nil {
			return invalidAuth(conn, err)
		}
		salt, err := base64.StdEncoding.DecodeString(saltB64)
		if err != nil {
			return invalidAuth(conn, err)
		}
		primeStr, err := first.GetString("PRIME")
		if err != nil {
			return invalidAuth(conn, err)
		}
		genStr, err := first.GetString("GENERATOR")
		if err != nil {
			return invalidAuth(conn, err)
		}
		verifierStr, err := first.GetString("VERIFIER")
		if err != nil {
			return invalidAuth(conn, err)
		}
		publicStr, err := first.GetString("PUBLIC_VALUE")
		if err != nil {
			return invalidAuth(conn, err)
		}

		prime, err := decodeBigInt(primeStr)
		if err != nil {
			return invalidAuth(conn, err)
		}
		generator, err := decodeBigInt(genStr)
		if err != nil {
			return invalidAuth(conn, err)
		}
		verifier, err := decodeBigInt(verifierStr)
		if err != nil {
			return invalidAuth(conn, err)
		}
		A, err := decodeBigInt(publicStr)
		if err != nil {
			return invalidAuth(conn, err)
		}

		peerGroup := srp.Group{N: prime, G: generator}
		server, err := srp.NewServer(peerGroup, verifier)
		if err != nil {
			return invalidAuth(conn, err)
		}

		reply := ghost.New(msgHandshakeAuth,
			ghost.NamedParam{Name: "PUBLIC_VALUE", Value: ghost.StrParam(encodeBigInt(server.PublicValue()))},
		)
		if err := ghost.WriteFrame(conn, reply, nil); err != nil {
			return [32]byte{}, "", err
		}

		key, err := server.ComputeSessionKey(A)
		if err != nil {
			return invalidAuth(conn, err)
		}

		if err := book.SaveVerifier(identifier, salt, prime, generator, verifier); err != nil {
			return [32]byte{}, "", err
		}
		return key, identifier, nil
	}

	salt, prime, generator, verifier, ok := book.LookupVerifier(identifier)
	if !ok {
		return invalidAuth(conn, fmt.Errorf("p2p: handshake: unknown peer %q", identifier))
	}
	peerGroup := srp.Group{N: prime, G: generator}
	server, err := srp.NewServer(peerGroup, verifier)
	if err != nil {
		return invalidAuth(conn, err)
	}

	challenge := ghost.New(msgHandshakeChallenge,
		ghost.NamedParam{Name: "SALT", Value: ghost.StrParam(base64.StdEncoding.EncodeToString(salt))},
		ghost.NamedParam{Name: "PRIME", Value: ghost.StrParam(encodeBigInt(prime))},
		ghost.NamedParam{Name: "GENERATOR", Value: ghost.StrParam(encodeBigInt(generator))},
		ghost.NamedParam{Name: "PUBLIC_VALUE", Value: ghost.StrParam(encodeBigInt(server.PublicValue()))},
	)
	if err := ghost.WriteFrame(conn, challenge, nil); err != nil {
		return [32]byte{}, "", err
	}

	resp, err := ghost.ReadFrame(conn, nil)
	if err != nil {
		return [32]byte{}, "", err
	}
	aStr, err := resp.GetString("PUBLIC_VALUE")
	if err != nil {
		return invalidAuth(conn, err)
	}
	A, err := decodeBigInt(aStr)
	if err != nil {
		return invalidAuth(conn, err)
	}

	key, err := server.ComputeSessionKey(A)
	if err != nil {
		return invalidAuth(conn, err)
	}
	return key, identifier, nil
}

// invalidAuth sends INVALID_AUTH and returns the original error (spec §4.5
// "Failure: a malformed or inconsistent handshake results in sending
// INVALID_AUTH and closing the connection" — the caller closes conn).
func invalidAuth(conn net.Conn, cause error) ([32]byte, string, error) {
	_ = ghost.WriteFrame(conn, ghost.New(msgInvalidAuth), nil)
	return [32]byte{}, "", fmt.Errorf("p2p: handshake failed: %w", cause)
}
