package pill

// Detection is one counted pill. Coordinates are original-frame pixels, so
// they line up with the annotated image regardless of region cropping.
type Detection struct {
	// Index is the ordinal label drawn on the annotated image, assigned in
	// discovery order starting at 1.
	Index int `json:"index"`

	// X, Y is the detection centroid.
	X int `json:"x"`
	Y int `json:"y"`

	// Area is the candidate area in pixels.
	Area float64 `json:"area"`

	// Radius is the implied pill radius in pixels.
	Radius float64 `json:"radius"`

	// Circularity is the shape descriptor (1.0 = perfect disc).
	Circularity float64 `json:"circularity"`

	// Color is the hex color sampled at the centroid of the original
	// frame, e.g. "#E8A0B4".
	Color string `json:"color"`
}

// Result is the sole output artifact of a counting invocation. Nothing
// persists after it is returned: no caches, no identity across runs.
type Result struct {
	// Count is the number of pills detected, >= 0. Zero is a valid
	// outcome, not an error.
	Count int `json:"count"`

	// Detections lists the counted pills in label order.
	Detections []Detection `json:"detections"`

	// AnnotatedBase64 is the original frame with markers, rings, labels,
	// and the trusted-region outline drawn on a copy, as base64 PNG.
	AnnotatedBase64 string `json:"annotated_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`

	// DebugImages holds named intermediate-stage snapshots (spotlight,
	// signal, binary, distance) as base64 PNG when debug output was
	// requested. Nil otherwise.
	DebugImages map[string]string `json:"debug_images,omitempty"`
}
