// Package chunking splits repository files into indexable chunks sized for
// embedding and search.
//
// Two strategies cover all inputs. Java files declaring a type with at least
// two recognizable methods are split structurally: one header chunk (imports,
// type declaration, fields) followed by one chunk per method, with method
// bodies located by brace matching that ignores braces inside strings,
// character literals, and comments. Every other file is split by size using a
// recursive character splitter with per-language separator hierarchies.
//
// # Basic Usage
//
//	c := chunking.New(chunking.DefaultConfig(), log)
//	chunks := c.ChunkFile(file, repoID)
//
//	for _, chunk := range chunks {
//	    fmt.Printf("%s: %d bytes\n", chunk.ID, len(chunk.Content))
//	}
//
// ChunkFile never fails: blank files yield no chunks, and any internal error
// degrades to a single chunk holding the whole file.
//
// # Size Tiers
//
// Target fragment sizes scale with file length so small files are not
// shredded and large files do not produce hundreds of fragments:
//
//   - under 500 bytes: kept whole
//   - under 2000 bytes: 1000-byte targets
//   - under 10000 bytes: 1500-byte targets
//   - larger: 2000-byte targets
//
// Adjacent fragments never overlap. When the splitter returns a single
// fragment shorter than 1.2x the target, the whole file is indexed instead.
//
// # Chunk Contents
//
// Each chunk's content starts with a "File: <path>" header line so the file
// path itself is searchable. Class and function names detected in the
// fragment are attached as metadata under the class_name and function_name
// keys, giving the search index filterable symbol attributes.
package chunking
