package node

import "ghostnode.dev/node/consensus"

// NoSignatureVerifier is the default consensus.AddressVerifier wired into a
// running node. The signature algorithm a deployment actually signs
// transactions with is explicitly out of scope (spec §1 Non-goals: "no
// specific digital signature algorithm or curve, key management/HSM
// integration") and the teacher's own OpenSSL/PQC verifier
// (clients/go/consensus/verify_sig_openssl.go) is cgo-bound to a signature
// suite this spec never names, so it has nothing to generalize into here.
//
// NoSignatureVerifier fails closed: every signature is rejected, so a block
// carrying any non-coinbase transaction is refused rather than silently
// accepted. A deployment that needs to accept real transactions supplies its
// own AddressVerifier — the only seam ValidateBlock ever calls through — in
// place of this one.
type NoSignatureVerifier struct{}

func (NoSignatureVerifier) Verify(string, string, [32]byte) bool { return false }
