package mcp

import (
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cubestack/cubemcp/pkg/logger"
)

var _ = Describe("resources", func() {
	var server *Server

	BeforeEach(func() {
		var err error
		server, err = NewServer(Config{Streamer: &fakeStreamer{}, Logger: logger.Nop()})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("info://server", func() {
		It("returns a plain-text description", func() {
			res, err := server.handleServerInfo(context.Background(), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Contents).To(HaveLen(1))
			Expect(res.Contents[0].URI).To(Equal("info://server"))
			Expect(res.Contents[0].MIMEType).To(Equal("text/plain"))
			Expect(res.Contents[0].Text).To(ContainSubstring("Cube"))
		})
	})

	Describe("config://example", func() {
		It("returns a JSON blob with name, version, and features", func() {
			res, err := server.handleExampleConfig(context.Background(), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Contents).To(HaveLen(1))
			Expect(res.Contents[0].MIMEType).To(Equal("application/json"))

			var blob struct {
				Name     string   `json:"name"`
				Version  string   `json:"version"`
				Features []string `json:"features"`
			}
			Expect(json.Unmarshal([]byte(res.Contents[0].Text), &blob)).To(Succeed())
			Expect(blob.Name).To(Equal("cubemcp"))
			Expect(blob.Features).To(ContainElement("chat"))
		})
	})
})
