package chunking

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/logger"
	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/types"
)

// singleChunkSlack is the tolerance applied when the splitter returns one
// fragment: anything under slack times the target size is indexed as the
// whole file instead of a near-duplicate fragment.
const singleChunkSlack = 1.2

// SizeTier selects splitting parameters for files whose content length falls
// below MaxContentLen.
type SizeTier struct {
	// MaxContentLen is the exclusive upper bound in bytes. Zero means the
	// tier is unbounded and catches everything the earlier tiers did not.
	MaxContentLen int

	// ChunkSize is the target fragment size. Zero means files in this tier
	// are kept whole.
	ChunkSize int

	// ChunkOverlap is the number of characters shared by adjacent fragments.
	ChunkOverlap int
}

// DefaultTiers returns the standard size ladder: files under 500 bytes stay
// whole, then targets grow with file size so large files produce fewer,
// bigger fragments.
func DefaultTiers() []SizeTier {
	return []SizeTier{
		{MaxContentLen: 500, ChunkSize: 0, ChunkOverlap: 0},
		{MaxContentLen: 2000, ChunkSize: 1000, ChunkOverlap: 0},
		{MaxContentLen: 10000, ChunkSize: 1500, ChunkOverlap: 0},
		{MaxContentLen: 0, ChunkSize: 2000, ChunkOverlap: 0},
	}
}

// Config holds the chunking parameters fixed at construction.
type Config struct {
	// DynamicSizing enables the size-tier ladder. When false every file that
	// reaches the size-based path is kept as a single chunk.
	DynamicSizing bool

	// Tiers is the size ladder, ordered by ascending MaxContentLen with the
	// unbounded tier last. Empty means DefaultTiers.
	Tiers []SizeTier
}

// DefaultConfig returns the configuration used by the indexing pipeline.
func DefaultConfig() Config {
	return Config{DynamicSizing: true, Tiers: DefaultTiers()}
}

// Chunker splits source files into indexable chunks.
type Chunker struct {
	cfg Config
	log logger.Logger
}

// New creates a Chunker. A nil logger disables logging.
func New(cfg Config, log logger.Logger) *Chunker {
	if len(cfg.Tiers) == 0 {
		cfg.Tiers = DefaultTiers()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Chunker{cfg: cfg, log: log}
}

// ChunkFile splits a file into chunks tagged with the file path and any
// class or function names detected in each piece. Java files with multiple
// methods are split along method boundaries; everything else is split by
// size. Blank files yield no chunks, and any internal failure degrades to a
// single chunk holding the whole file, so the caller always gets a usable
// result.
func (c *Chunker) ChunkFile(file types.FileRecord, repoID int64) (chunks []types.Chunk) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("chunking failed, keeping whole file",
				"path", file.Path, "panic", r)
			chunks = c.singleChunk(file, repoID)
		}
	}()

	if strings.TrimSpace(file.Content) == "" {
		c.log.Debug("skipping blank file", "path", file.Path)
		return nil
	}

	if shouldSplitByMethod(file.Content, file.Language) {
		return c.chunkByMethod(file, repoID)
	}
	return c.chunkBySize(file, repoID)
}

// chunkByMethod runs the structural splitter and falls back to a single
// chunk when it could not find more than one fragment.
func (c *Chunker) chunkByMethod(file types.FileRecord, repoID int64) []types.Chunk {
	fragments := splitByMethod(file.Content)
	if len(fragments) <= 1 {
		return c.singleChunk(file, repoID)
	}

	chunks := make([]types.Chunk, 0, len(fragments))
	for i, text := range fragments {
		chunks = append(chunks, c.buildChunk(file, repoID, i, text))
	}
	c.log.Debug("split file by method",
		"path", file.Path, "chunks", len(chunks))
	return chunks
}

// chunkBySize delegates to the recursive character splitter with tier-scaled
// parameters and the language's separator hierarchy.
func (c *Chunker) chunkBySize(file types.FileRecord, repoID int64) []types.Chunk {
	tier, split := c.tierFor(len(file.Content))
	if !split {
		return c.singleChunk(file, repoID)
	}

	opts := []textsplitter.Option{
		textsplitter.WithChunkSize(tier.ChunkSize),
		textsplitter.WithChunkOverlap(tier.ChunkOverlap),
	}
	if seps, ok := separatorsForLanguage(file.Language); ok {
		opts = append(opts, textsplitter.WithSeparators(seps))
	}

	fragments, err := textsplitter.NewRecursiveCharacter(opts...).SplitText(file.Content)
	if err != nil {
		c.log.Warn("recursive split failed, keeping whole file",
			"path", file.Path, "error", err)
		return c.singleChunk(file, repoID)
	}

	if len(fragments) == 1 && float64(len(fragments[0])) < float64(tier.ChunkSize)*singleChunkSlack {
		return c.singleChunk(file, repoID)
	}

	chunks := make([]types.Chunk, 0, len(fragments))
	for i, text := range fragments {
		chunks = append(chunks, c.buildChunk(file, repoID, i, text))
	}
	c.log.Debug("split file by size",
		"path", file.Path, "target", tier.ChunkSize, "chunks", len(chunks))
	return chunks
}

// tierFor picks the size tier for a content length. split is false when the
// file should be kept whole.
func (c *Chunker) tierFor(contentLen int) (tier SizeTier, split bool) {
	if !c.cfg.DynamicSizing {
		return SizeTier{}, false
	}
	for _, t := range c.cfg.Tiers {
		if t.MaxContentLen == 0 || contentLen < t.MaxContentLen {
			if t.ChunkSize == 0 {
				return SizeTier{}, false
			}
			return t, true
		}
	}
	return SizeTier{}, false
}

func (c *Chunker) singleChunk(file types.FileRecord, repoID int64) []types.Chunk {
	return []types.Chunk{c.buildChunk(file, repoID, 0, file.Content)}
}

// buildChunk assembles one chunk: a "File: <path>" header line prepended to
// the fragment, a deterministic id, and metadata for any detected names.
func (c *Chunker) buildChunk(file types.FileRecord, repoID int64, index int, text string) types.Chunk {
	var metadata map[string]string
	className, functionName := extractContext(text, file.Language)
	if className != "" || functionName != "" {
		metadata = make(map[string]string, 2)
		if className != "" {
			metadata[types.MetadataClassName] = className
		}
		if functionName != "" {
			metadata[types.MetadataFunctionName] = functionName
		}
	}

	return types.Chunk{
		ID:       types.ChunkID(repoID, file.Path, index),
		FilePath: file.Path,
		Content:  fmt.Sprintf("File: %s\n\n%s", file.Path, text),
		Language: file.Language,
		Metadata: metadata,
	}
}
