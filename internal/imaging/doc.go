// Package imaging provides the image plumbing around texture synthesis.
//
// The synthesis engine itself never touches files. This package does the
// work on its behalf: loading and caching sample images, cutting out the
// user-selected sample region, and turning synthesized images into results
// that can be returned over MCP (base64 PNG) or written to disk.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The other functions are
// stateless and never modify their input images.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions outside image bounds or with no area
//   - File I/O errors during image loading and saving
//   - Encoding errors during image output
package imaging
