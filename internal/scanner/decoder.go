package scanner

import (
	"errors"
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNoCode is decode noise: the frame holds no readable code. It is
// expected on most frames while scanning.
var ErrNoCode = errors.New("no code in frame")

// Decoder extracts the text of a barcode from a single frame.
type Decoder interface {
	Decode(img image.Image) (string, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(img image.Image) (string, error)

func (f DecoderFunc) Decode(img image.Image) (string, error) { return f(img) }

// ZXingDecoder tries a set of 1D product, 1D industrial and QR readers in
// turn on every frame.
type ZXingDecoder struct {
	readers []gozxing.Reader
	hints   map[gozxing.DecodeHintType]interface{}
}

func NewZXingDecoder() *ZXingDecoder {
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	return &ZXingDecoder{
		readers: []gozxing.Reader{
			oned.NewMultiFormatUPCEANReader(hints),
			oned.NewCode128Reader(),
			oned.NewCode39Reader(),
			qrcode.NewQRCodeReader(),
		},
		hints: hints,
	}
}

// isNoise reports reader failures that only mean the frame held no
// readable code: nothing found, or a blurred code failing its checks.
func isNoise(err error) bool {
	var (
		notFound gozxing.NotFoundException
		format   gozxing.FormatException
		checksum gozxing.ChecksumException
	)
	return errors.As(err, &notFound) || errors.As(err, &format) || errors.As(err, &checksum)
}

// Decode returns ErrNoCode when none of the readers finds a code. Any other
// reader failure is returned as is.
func (d *ZXingDecoder) Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("prepare frame: %w", err)
	}

	var fault error
	for _, r := range d.readers {
		result, err := r.Decode(bmp, d.hints)
		r.Reset()
		if err == nil {
			return result.GetText(), nil
		}
		if isNoise(err) {
			continue
		}
		if fault == nil {
			fault = err
		}
	}
	if fault != nil {
		return "", fmt.Errorf("decode frame: %w", fault)
	}
	return "", ErrNoCode
}
