package inference

// BoundingBox locates a prediction within the submitted image.
type BoundingBox struct {
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GrowthPrediction is a single prediction from the growth model, including
// an estimate of when the flush will be ready to harvest.
type GrowthPrediction struct {
	Class              string      `json:"class"`
	Confidence         float64     `json:"confidence"`
	HarvestingEstimate string      `json:"harvesting_estimate"`
	BoundingBox        BoundingBox `json:"bounding_box"`
}

type GrowthResponse struct {
	Predictions      []GrowthPrediction `json:"predictions"`
	ProcessingTimeMS float64            `json:"processing_time_ms"`
	ImageDimensions  ImageDimensions    `json:"image_dimensions"`
}

// Detection is a single detection from the detection or disease models.
type Detection struct {
	Class      string     `json:"class"`
	Confidence float64    `json:"confidence"`
	BBox       [4]float64 `json:"bbox"`
}

type DetectionResponse struct {
	Filename       string      `json:"filename,omitempty"`
	Detections     []Detection `json:"detections"`
	Count          int         `json:"count"`
	InferenceTime  float64     `json:"inference_time"`
	ImageURL       string      `json:"image_url,omitempty"`
	ImageName      string      `json:"image_name,omitempty"`
	DirectImageURL string      `json:"direct_image_url,omitempty"`
}
