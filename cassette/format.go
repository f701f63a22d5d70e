package cassette

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/BaSui01/imagen/image"
)

// Cassette is an ordered record of capability calls and their outcomes,
// plus provenance metadata. Once written it is never mutated; replay
// loads it read-only.
type Cassette struct {
	Name         string        `yaml:"name"`
	RecordedAt   time.Time     `yaml:"recorded_at"`
	Commit       string        `yaml:"commit"`
	Interactions []Interaction `yaml:"interactions"`
}

// Interaction is one request/outcome pair inside a cassette. Within a
// cassette, Seq values are unique, contiguous from 0, and match the
// physical order of the interactions list.
type Interaction struct {
	Seq        uint64        `yaml:"seq"`
	Capability string        `yaml:"capability"`
	Method     string        `yaml:"method"`
	Input      image.Request `yaml:"input"`
	Output     Outcome       `yaml:"output"`
}

// Outcome is the tagged success-or-failure result of one interaction.
// Exactly one of OK and Err is set.
type Outcome struct {
	OK  *resultPayload `yaml:"ok,omitempty"`
	Err *image.Error   `yaml:"err,omitempty"`
}

type resultPayload struct {
	Images []imagePayload `yaml:"images"`
}

// imagePayload carries image bytes in the textual form used on disk.
type imagePayload struct {
	Data     string `yaml:"data"` // standard base64
	MimeType string `yaml:"mime_type"`
}

// NewOutcome captures a Generate result in its serializable form.
func NewOutcome(resp *image.Response, err error) Outcome {
	if err != nil {
		return Outcome{Err: image.AsError(err)}
	}
	p := &resultPayload{Images: make([]imagePayload, len(resp.Images))}
	for i, img := range resp.Images {
		p.Images[i] = imagePayload{
			Data:     base64.StdEncoding.EncodeToString(img.Data),
			MimeType: img.MimeType,
		}
	}
	return Outcome{OK: p}
}

// Result reconstructs the recorded outcome. A stored failure comes back
// as the same typed error that was captured; a stored success decodes to
// a fresh Response the caller owns.
func (o Outcome) Result() (*image.Response, error) {
	if o.Err != nil {
		stored := *o.Err
		return nil, &stored
	}
	if o.OK == nil {
		return nil, &image.Error{Code: image.ErrStoreCorrupt, Message: "interaction output has neither ok nor err"}
	}
	resp := &image.Response{Images: make([]image.Image, len(o.OK.Images))}
	for i, p := range o.OK.Images {
		data, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return nil, &image.Error{
				Code:    image.ErrStoreCorrupt,
				Message: fmt.Sprintf("image %d: invalid base64 payload: %v", i, err),
			}
		}
		resp.Images[i] = image.Image{Data: data, MimeType: p.MimeType}
	}
	return resp, nil
}

// validate checks the cassette invariants: contiguous sequence numbers
// starting at 0 in physical order, and decodable outcomes.
func (c *Cassette) validate() error {
	for i, in := range c.Interactions {
		if in.Seq != uint64(i) {
			return fmt.Errorf("interaction %d has seq %d; sequence numbers must be contiguous from 0", i, in.Seq)
		}
		if in.Output.OK != nil && in.Output.Err != nil {
			return fmt.Errorf("interaction %d has both ok and err outputs", i)
		}
		// A stored failure is a legitimate outcome; only undecodable
		// payloads count as corruption.
		if _, err := in.Output.Result(); err != nil {
			var ie *image.Error
			if errors.As(err, &ie) && ie.Code == image.ErrStoreCorrupt {
				return fmt.Errorf("interaction %d: %s", i, ie.Message)
			}
		}
	}
	return nil
}
