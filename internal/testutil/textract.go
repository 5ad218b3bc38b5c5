package testutil

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

// WordBlock returns a WORD block with the given normalized bounding box.
func WordBlock(text string, left, top, width, height float32) types.Block {
	return types.Block{
		BlockType:  types.BlockTypeWord,
		Text:       aws.String(text),
		Confidence: aws.Float32(99),
		Geometry: &types.Geometry{
			BoundingBox: &types.BoundingBox{Left: left, Top: top, Width: width, Height: height},
		},
	}
}

// LineBlock returns a LINE block with the given normalized bounding box.
func LineBlock(text string, left, top, width, height float32) types.Block {
	b := WordBlock(text, left, top, width, height)
	b.BlockType = types.BlockTypeLine
	return b
}

// FakeDetector returns a fixed Textract response and records its inputs.
type FakeDetector struct {
	Blocks []types.Block
	Err    error

	mu     sync.Mutex
	inputs [][]byte
}

// DetectText implements the detector used by the annotators.
func (f *FakeDetector) DetectText(_ context.Context, fileBytes []byte) (*textract.DetectDocumentTextOutput, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, fileBytes)
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	return &textract.DetectDocumentTextOutput{Blocks: f.Blocks}, nil
}

// Calls returns how many times DetectText was invoked.
func (f *FakeDetector) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inputs)
}

// Inputs returns the payloads passed to DetectText.
func (f *FakeDetector) Inputs() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.inputs...)
}
