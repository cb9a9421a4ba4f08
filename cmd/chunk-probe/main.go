// chunk-probe runs the chunk and embed pipeline on local files without
// touching RabbitMQ or Meilisearch. Useful for eyeballing chunk boundaries
// and verifying an OpenAI key before deploying.
//
// Usage:
//
//	chunk-probe [-provider mock|openai] [file ...]
//
// With no files a built-in sample is used. The openai provider reads
// OPENAI_API_KEY from the environment.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gilbert09031/CatchUp-Github-Worker/internal/chunking"
	"github.com/gilbert09031/CatchUp-Github-Worker/internal/embedder"
	"github.com/gilbert09031/CatchUp-Github-Worker/internal/github"
	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/types"
)

const sampleFile = "sample/user_service.py"

const sampleContent = `class UserService:
    def __init__(self, repo):
        self.repo = repo

    def get_user(self, user_id):
        return self.repo.find(user_id)

    def delete_user(self, user_id):
        self.repo.delete(user_id)
`

func main() {
	provider := flag.String("provider", embedder.ProviderMock, "embedding provider: mock or openai")
	flag.Parse()

	emb, err := embedder.New(embedder.Config{Provider: *provider, CacheSize: 100})
	if err != nil {
		log.Fatalf("create embedder: %v", err)
	}
	defer emb.Close()

	files, err := loadFiles(flag.Args())
	if err != nil {
		log.Fatalf("load files: %v", err)
	}

	chunker := chunking.New(chunking.DefaultConfig(), nil)
	ctx := context.Background()

	totalChunks := 0
	for _, file := range files {
		chunks := chunker.ChunkFile(file, 0)
		totalChunks += len(chunks)

		fmt.Printf("%s (%s, %d bytes) -> %d chunks\n", file.Path, file.Language, file.Size, len(chunks))
		for i, chunk := range chunks {
			fmt.Printf("  [%d] %d bytes", i, len(chunk.Content))
			if class, ok := chunk.ClassName(); ok {
				fmt.Printf("  class=%s", class)
			}
			if function, ok := chunk.FunctionName(); ok {
				fmt.Printf("  function=%s", function)
			}
			fmt.Println()
		}

		if len(chunks) == 0 {
			continue
		}
		texts := make([]string, len(chunks))
		for i, chunk := range chunks {
			texts[i] = chunk.Content
		}

		start := time.Now()
		vectors, err := emb.EmbedBatch(ctx, texts)
		if err != nil {
			log.Fatalf("embed %s: %v", file.Path, err)
		}
		fmt.Printf("  embedded %d texts in %v (%d dimensions)\n",
			len(vectors), time.Since(start).Round(time.Millisecond), emb.Dimensions())
	}

	fmt.Printf("\n%d files, %d chunks, provider %s\n", len(files), totalChunks, *provider)
}

func loadFiles(paths []string) ([]types.FileRecord, error) {
	if len(paths) == 0 {
		return []types.FileRecord{{
			Path:     sampleFile,
			Content:  sampleContent,
			Language: github.DetectLanguage(sampleFile),
			Size:     int64(len(sampleContent)),
		}}, nil
	}

	files := make([]types.FileRecord, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, types.FileRecord{
			Path:     path,
			Content:  string(content),
			Language: github.DetectLanguage(path),
			Size:     int64(len(content)),
		})
	}
	return files, nil
}
