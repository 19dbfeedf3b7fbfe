// Package lzss provides the match finders and the LZSS encoder used by the
// LHA compression methods -lh1- to -lh7-, -lzs- and -lz5-.
//
// A [Finder] indexes the positions of a sliding dictionary window in a text
// buffer and finds the longest prior occurrence of the bytes at a position.
// Four finders are supported and selected by [FinderType]:
//
//   - [BinaryTree] keeps all positions of the window in a single binary
//     tree and always finds the longest match.
//   - [HashBinaryTree] keeps a binary tree for every hash bucket.
//   - [HashChain] walks hash chains with a limit on the number of nodes
//     visited and avoids overloaded buckets.
//   - [TwoLevelHash] refines the primary hash buckets with secondary hash
//     tables that are resized as the load of the buckets changes.
//
// The [Encoder] drives a finder: it owns the text buffer, adds every
// position to the finder, slides the buffer and writes literals and matches
// to a [TokenWriter]. The entropy coding of the tokens is not part of the
// package. The [Decoder] reconstructs the byte stream from the tokens.
//
// The parameters of the LHA methods are provided by [LookupMethod].
package lzss
