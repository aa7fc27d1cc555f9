package imageprocessing

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
)

// EncodeGrayPNG writes gray as a PNG of color type 0 packed at bitDepth
// (1, 2 or 4) bits per pixel. Every pixel must sit exactly on one of the
// 2^bitDepth evenly spaced grey levels.
func EncodeGrayPNG(gray *image.Gray, bitDepth int) ([]byte, error) {
	if bitDepth != 1 && bitDepth != 2 && bitDepth != 4 {
		return nil, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}

	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	imageData, err := packGrayscaleImageData(gray, bitDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to pack image data: %w", err)
	}
	compressedData, err := zlibCompress(imageData)
	if err != nil {
		return nil, fmt.Errorf("failed to compress image data: %w", err)
	}

	var buf bytes.Buffer
	buf.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})

	writeChunk(&buf, "IHDR", func(data *bytes.Buffer) {
		binary.Write(data, binary.BigEndian, uint32(width))
		binary.Write(data, binary.BigEndian, uint32(height))
		data.WriteByte(uint8(bitDepth))
		data.WriteByte(0) // grayscale
		data.WriteByte(0) // deflate
		data.WriteByte(0) // adaptive filtering
		data.WriteByte(0) // no interlace
	})
	writeChunk(&buf, "IDAT", func(data *bytes.Buffer) {
		data.Write(compressedData)
	})
	writeChunk(&buf, "IEND", func(*bytes.Buffer) {})

	return buf.Bytes(), nil
}

// packGrayscaleImageData maps each grey value to its level index and packs
// the indices MSB first, one filter byte per row.
func packGrayscaleImageData(gray *image.Gray, bitDepth int) ([]byte, error) {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	maxLevel := 1<<bitDepth - 1
	step := 255 / maxLevel
	pixelsPerByte := 8 / bitDepth
	bytesPerRow := (width + pixelsPerByte - 1) / pixelsPerByte

	data := make([]byte, height*(bytesPerRow+1))
	for y := 0; y < height; y++ {
		rowStart := y * (bytesPerRow + 1)
		data[rowStart] = 0 // filter type None

		for x := 0; x < width; x++ {
			v := int(gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			if v%step != 0 {
				return nil, fmt.Errorf("grey %d at (%d,%d) is not a %d-bit level", v, x, y, bitDepth)
			}
			level := byte(v / step)

			byteIndex := rowStart + 1 + x/pixelsPerByte
			bitOffset := (pixelsPerByte - 1 - (x % pixelsPerByte)) * bitDepth
			data[byteIndex] |= level << bitOffset
		}
	}
	return data, nil
}

// writeChunk writes a PNG chunk with proper CRC
func writeChunk(buf *bytes.Buffer, chunkType string, dataWriter func(*bytes.Buffer)) {
	var chunkData bytes.Buffer
	dataWriter(&chunkData)
	data := chunkData.Bytes()

	binary.Write(buf, binary.BigEndian, uint32(len(data)))
	buf.WriteString(chunkType)
	buf.Write(data)

	crc := crc32.NewIEEE()
	crc.Write([]byte(chunkType))
	crc.Write(data)
	binary.Write(buf, binary.BigEndian, crc.Sum32())
}

func zlibCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib writer: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zlib writer: %w", err)
	}
	return buf.Bytes(), nil
}
