package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papergrid/askdocs/pkg/config"
)

var _ = Describe("NewDefaultConfig", func() {
	It("fills every section", func() {
		cfg := config.NewDefaultConfig()
		Expect(cfg.Server.Listen).To(Equal(":8080"))
		Expect(cfg.Completion.Provider).To(Equal("ollama"))
		Expect(cfg.Embedding.Model).To(Equal("nomic-embed-text"))
		Expect(cfg.Embedding.Dimensions).To(Equal(uint(768)))
		Expect(cfg.VectorStore.Provider).To(Equal("sqlite"))
		Expect(cfg.Retry.MaxAttempts).To(Equal(6))
	})
})

var _ = Describe("Save and Load", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "askdocs-config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("round-trips a config through config.toml", func() {
		cfg := config.NewDefaultConfig()
		cfg.Server.Listen = ":9090"
		cfg.VectorStore.Provider = "qdrant"
		cfg.VectorStore.Target = "localhost:6334"

		path, err := config.Save(cfg, tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(tmpDir, "config.toml")))

		loaded, err := config.Load(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Server.Listen).To(Equal(":9090"))
		Expect(loaded.VectorStore.Provider).To(Equal("qdrant"))
		Expect(loaded.VectorStore.Target).To(Equal("localhost:6334"))
	})

	It("fails to load from a directory without a config", func() {
		_, err := config.Load(tmpDir)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("InitViper", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "askdocs-viper-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("applies defaults when no config file exists", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg := config.FromViper(v)
		Expect(cfg).To(Equal(config.NewDefaultConfig()))
	})

	It("reads values from config.toml", func() {
		toml := `
[server]
listen = ":7070"

[completion]
provider = "openai"
model = "gpt-4o-mini"
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(toml), 0o644)
		Expect(err).NotTo(HaveOccurred())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg := config.FromViper(v)
		Expect(cfg.Server.Listen).To(Equal(":7070"))
		Expect(cfg.Completion.Provider).To(Equal("openai"))
		Expect(cfg.Completion.Model).To(Equal("gpt-4o-mini"))
		// Untouched sections keep their defaults.
		Expect(cfg.VectorStore.Provider).To(Equal("sqlite"))
	})

	It("lets environment variables override the file", func() {
		toml := `
[vector_store]
provider = "sqlite"
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(toml), 0o644)
		Expect(err).NotTo(HaveOccurred())

		orig := os.Getenv("ASKDOCS_VECTOR_STORE_PROVIDER")
		Expect(os.Setenv("ASKDOCS_VECTOR_STORE_PROVIDER", "qdrant")).To(Succeed())
		defer func() {
			Expect(os.Setenv("ASKDOCS_VECTOR_STORE_PROVIDER", orig)).To(Succeed())
		}()

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg := config.FromViper(v)
		Expect(cfg.VectorStore.Provider).To(Equal("qdrant"))
	})
})
