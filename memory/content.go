package memory

import "sync"

type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Block is one piece of user content. Image holds base64 PNG data.
type Block struct {
	Kind  Kind   `json:"kind"`
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

// Content is an ordered, append-only buffer of blocks.
type Content struct {
	mu     sync.Mutex
	blocks []Block
}

func (c *Content) AddText(text string) {
	c.append(Block{Kind: KindText, Text: text})
}

func (c *Content) AddImage(base64PNG string) {
	c.append(Block{Kind: KindImage, Image: base64PNG})
}

func (c *Content) append(b Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks = append(c.blocks, b)
}

// Blocks returns a copy of the buffered blocks.
func (c *Content) Blocks() []Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Block(nil), c.blocks...)
}

func (c *Content) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.blocks)
}

func (c *Content) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks = nil
}

// Summary counts blocks by kind and text bytes, for logging without
// payloads.
func (c *Content) Summary() (texts, images, textBytes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range c.blocks {
		switch b.Kind {
		case KindText:
			texts++
			textBytes += len(b.Text)
		case KindImage:
			images++
		}
	}
	return texts, images, textBytes
}
