package types_test

import (
	"fmt"
	"strings"

	. "github.com/allylabs/allychat/core/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func history(n int) []ChatMessage {
	msgs := []ChatMessage{}
	for i := 0; i < n; i++ {
		msgs = append(msgs, ChatMessage{
			ID:    i + 1,
			Text:  fmt.Sprintf("message %d", i+1),
			IsBot: i%2 == 1,
		})
	}
	return msgs
}

var _ = Describe("FormatHistory", func() {
	It("returns an empty string for an empty history", func() {
		Expect(FormatHistory(nil)).To(Equal(""))
	})

	It("prefixes lines according to the origin flag", func() {
		out := FormatHistory([]ChatMessage{
			{ID: 1, Text: "hello", IsBot: false},
			{ID: 2, Text: "hi there", IsBot: true},
		})
		Expect(out).To(Equal("Human: hello\nAssistant: hi there"))
	})

	It("keeps only the trailing window in chronological order", func() {
		out := FormatHistory(history(9))
		lines := strings.Split(out, "\n")
		Expect(lines).To(HaveLen(HistoryWindow))
		Expect(lines[0]).To(Equal("Assistant: message 4"))
		Expect(lines[5]).To(Equal("Human: message 9"))
	})

	It("uses the full history when shorter than the window", func() {
		out := FormatHistory(history(3))
		Expect(strings.Split(out, "\n")).To(HaveLen(3))
	})
})
