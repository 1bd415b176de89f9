// Package card implements the cardazim card record and its wire format.
//
// # Card Format
//
//	[NameLen(4)][Name][CreatorLen(4)][Creator][ImageBlock][RiddleLen(4)][Riddle]
//
// Text fields use the length-prefixed encoding of package codec and the
// image block is the encoded form of a cryptimage.EncryptedImage. All
// integers are 32-bit little-endian. The solution is never serialized:
// a collector learns it out of band and checks it against the image's
// fingerprint with [Card.Solve].
//
// # Usage
//
//	c, err := card.CreateFromPath("cardoz", "lidor", "smile.jpg", "coming here a lot?", "yes!")
//	if err != nil {
//	    return err
//	}
//	c.Image.Encrypt(c.Solution)
//	data, err := c.Serialize()
//
//	received, err := card.Deserialize(data)
//	if received.Solve("yes!") {
//	    // received.Image holds the original pixels again
//	}
package card
