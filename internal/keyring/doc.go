// Package keyring escrows keystore salts in the OS keyring.
//
// The salt is the one artifact that cannot be regenerated: losing it makes
// every block of the archive unreadable. A copy in the keyring lets
// "refguard keyring restore" recreate salt.key on the same machine.
package keyring
