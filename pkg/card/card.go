package card

import (
	"fmt"

	"github.com/cardazim/cardazim/pkg/cryptimage"
)

// Card is a named riddle with an encrypted picture.
type Card struct {
	Name     string
	Creator  string
	Image    *cryptimage.EncryptedImage
	Riddle   string
	Solution string // never serialized

	solved bool
}

// New creates a card that owns image.
func New(name, creator string, image *cryptimage.EncryptedImage, riddle, solution string) *Card {
	return &Card{
		Name:     name,
		Creator:  creator,
		Image:    image,
		Riddle:   riddle,
		Solution: solution,
	}
}

// CreateFromPath creates a card with an unencrypted image loaded from path.
func CreateFromPath(name, creator, path, riddle, solution string) (*Card, error) {
	image, err := cryptimage.NewFromPath(path)
	if err != nil {
		return nil, err
	}
	return New(name, creator, image, riddle, solution), nil
}

// Solve tries passphrase against the image. On success the image is
// decrypted in place and the passphrase is recorded as the solution.
func (c *Card) Solve(passphrase string) bool {
	if !c.Image.Decrypt(passphrase) {
		return false
	}
	c.Solution = passphrase
	c.solved = true
	return true
}

// IsSolved reports whether a solution is known. A card opened with the
// empty passphrase counts as solved.
func (c *Card) IsSolved() bool {
	return c.solved || c.Solution != ""
}

// String returns a human readable summary of the card.
func (c *Card) String() string {
	solution := "unsolved"
	if c.IsSolved() {
		solution = fmt.Sprintf("%q", c.Solution)
		if c.Solution != "" {
			solution = c.Solution
		}
	}
	return fmt.Sprintf("Card %s by %s\n  Riddle: %s\n  Solution: %s", c.Name, c.Creator, c.Riddle, solution)
}

// GoString is used by %#v.
func (c *Card) GoString() string {
	return fmt.Sprintf("<Card name=%s, creator=%s>", c.Name, c.Creator)
}
