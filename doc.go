/*
Package dds decodes DirectDraw Surface (DDS) textures into RGBA8 pixels.

Input is pulled incrementally through a FetchFunc, so a file can be decoded
while it is still arriving. Supported payloads are uncompressed bitmask
formats of 1 to 32 bits per pixel and the S3TC block formats DXT1 to DXT5
(BC1 to BC3, premultiplied DXT2 and DXT4 included) plus ATI1/ATI2 (BC4/BC5).
DX10 extended headers and other FourCC codes fail with ErrUnsupportedFormat.

Decoded surfaces are returned as *image.NRGBA with straight alpha. The
package registers itself with the image package under the name "dds", and
Read/ReadConfig open files that may additionally be wrapped in LZ4,
Zstandard or gzip.
*/
package dds
