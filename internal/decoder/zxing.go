package decoder

import (
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
)

// retailFormats are the symbologies found on grocery packaging.
var retailFormats = []gozxing.BarcodeFormat{
	gozxing.BarcodeFormat_EAN_13,
	gozxing.BarcodeFormat_EAN_8,
	gozxing.BarcodeFormat_UPC_A,
	gozxing.BarcodeFormat_UPC_E,
	gozxing.BarcodeFormat_CODE_128,
	gozxing.BarcodeFormat_CODE_39,
}

// ZXingRecognizer decodes 1D barcodes with gozxing.
type ZXingRecognizer struct {
	reader gozxing.Reader
	hints  map[gozxing.DecodeHintType]interface{}
}

var _ Recognizer = (*ZXingRecognizer)(nil)

// NewZXingRecognizer returns a recognizer for retail 1D formats. It is not
// safe for concurrent use; each session gets its own.
func NewZXingRecognizer() *ZXingRecognizer {
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER:       true,
		gozxing.DecodeHintType_POSSIBLE_FORMATS: retailFormats,
	}
	return &ZXingRecognizer{
		reader: multiReader{
			oned.NewMultiFormatUPCEANReader(hints),
			oned.NewCode128Reader(),
			oned.NewCode39Reader(),
		},
		hints: hints,
	}
}

// multiReader tries each reader in turn and returns the first hit. When all
// miss, the last error is returned.
type multiReader []gozxing.Reader

func (m multiReader) DecodeWithoutHints(img *gozxing.BinaryBitmap) (*gozxing.Result, error) {
	return m.Decode(img, nil)
}

func (m multiReader) Decode(img *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) (*gozxing.Result, error) {
	err := error(gozxing.NewNotFoundException("no readers"))
	for _, r := range m {
		result, decodeErr := r.Decode(img, hints)
		if decodeErr == nil {
			return result, nil
		}
		err = decodeErr
	}
	return nil, err
}

func (m multiReader) Reset() {
	for _, r := range m {
		r.Reset()
	}
}

// Recognize returns the barcode text in img or ErrNoBarcode.
func (r *ZXingRecognizer) Recognize(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarize frame: %w", err)
	}
	defer r.reader.Reset()

	result, err := r.reader.Decode(bmp, r.hints)
	if err != nil {
		if isMiss(err) {
			return "", ErrNoBarcode
		}
		return "", fmt.Errorf("decode frame: %w", err)
	}
	text := result.GetText()
	if text == "" {
		return "", ErrNoBarcode
	}
	return text, nil
}

// isMiss reports whether err only means this frame had nothing usable.
func isMiss(err error) bool {
	switch err.(type) {
	case gozxing.NotFoundException, gozxing.ChecksumException, gozxing.FormatException:
		return true
	}
	return false
}
