// Package def provides the definition model shared by the dedup engine and
// its host.
//
// This package contains type definitions and the stable short-hash function
// only. All other internal packages import def; def imports nothing internal.
//
// Key design constraints:
//   - Definition identity is pointer identity; names are the authored key
//   - Role is a closed enumeration computed once when a definition is compiled,
//     never derived at run time from the backing class
//   - Short hashes are a pure function of the definition name
package def
