// Package adaptive seals small secrets at rest with an AEAD cipher chosen
// for the host CPU.
//
// AES-256-GCM is used where the Go runtime has hardware AES support
// (amd64, arm64); ChaCha20-Poly1305 everywhere else. The key lives in a
// 0600 key file created on first use:
//
//	key, err := adaptive.LoadOrCreateKey(filepath.Join(dir, "token.key"))
//	c, err := adaptive.New(key)
//	sealed, err := c.Encrypt([]byte(token), []byte("authToken"))
package adaptive
