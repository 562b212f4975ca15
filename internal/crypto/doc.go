// Package crypto provides the primitives behind the refguard keystore.
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - the 32-byte salt followed by the hex content digest as the password
//   - the same salt as the PBKDF2 salt
//   - 100,000 iterations and a 32-byte output
//
// Binding the key to the plaintext's own digest makes every archive block
// self-verifying: decrypting with the key derived from the stored digest and
// hashing the result must reproduce that digest.
//
// Transform is a repeating-key XOR and is its own inverse. It obfuscates the
// archived documents, it does not keep them secret. Anyone who can read both
// the salt and the archive can decrypt every block, so the guarantee offered
// is tamper evidence and self-healing, not confidentiality.
//
// Memory safety:
//   - Use ClearBytes() to zero derived keys after use
package crypto
