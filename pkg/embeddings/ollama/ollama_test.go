package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papergrid/askdocs/pkg/embeddings"
	"github.com/papergrid/askdocs/pkg/embeddings/ollama"
)

var _ = Describe("Ollama Embedder", func() {
	var (
		server   *httptest.Server
		received map[string]any
		status   int
		response string
	)

	BeforeEach(func() {
		received = nil
		status = http.StatusOK
		response = `{"embeddings": [[0.1, 0.2, 0.3]]}`

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/api/embed"))
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			w.Write([]byte(response))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newEmbedder := func() *ollama.Embedder {
		e, err := ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: server.URL,
			Model:   "nomic-embed-text",
		})
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	It("returns the first embedding", func() {
		e := newEmbedder()
		defer e.Close()

		emb, err := e.Embed(context.Background(), "some text")
		Expect(err).NotTo(HaveOccurred())
		Expect(emb).To(Equal([]float32{0.1, 0.2, 0.3}))
	})

	It("sends the model and input text", func() {
		e := newEmbedder()
		defer e.Close()

		_, err := e.Embed(context.Background(), "some text")
		Expect(err).NotTo(HaveOccurred())
		Expect(received["model"]).To(Equal("nomic-embed-text"))
		Expect(received["input"]).To(Equal("some text"))
	})

	It("wraps non-200 responses as embedding errors", func() {
		status = http.StatusInternalServerError
		response = `{"error": "model not found"}`

		e := newEmbedder()
		defer e.Close()

		_, err := e.Embed(context.Background(), "some text")
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})

	It("treats an empty embeddings list as an error", func() {
		response = `{"embeddings": []}`

		e := newEmbedder()
		defer e.Close()

		_, err := e.Embed(context.Background(), "some text")
		Expect(err).To(MatchError(embeddings.ErrEmbedding))
	})
})
