package dds

import "fmt"

// decodeBlocks walks the image in 4x4 tiles, row-major, pulling one
// compressed chunk per tile from r and writing the decoded texels into dst.
// In edge tiles, texels past the right or bottom border are dropped so every
// output pixel keeps the texel decoded at its own position.
func decodeBlocks(r *Reader, dst []byte, width, height int, bc blockCodec) error {
	var scratch texelBlock
	index := 0
	for y := 0; y < height; y += blockDim {
		rows := min(blockDim, height-y)
		for x := 0; x < width; x += blockDim {
			src, err := r.Read(bc.size)
			if err != nil {
				return fmt.Errorf("block %d: %w", index, err)
			}
			bc.decode(&scratch, src)

			cols := min(blockDim, width-x)
			for by := 0; by < rows; by++ {
				di := ((y+by)*width + x) * 4
				si := by * blockDim * 4
				copy(dst[di:di+cols*4], scratch[si:si+cols*4])
			}
			index++
		}
	}

	return nil
}
