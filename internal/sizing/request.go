package sizing

// Request bundles every input of the sizing policy. A zero Container skips
// the preview computation.
type Request struct {
	Container Size `json:"container"`
	Source    Size `json:"source"`
	Pixelate  int  `json:"pixelate"`
	Mode      Mode `json:"mode"`
	Scale     int  `json:"scale"`
}

// Result holds the three resolutions derived from a Request.
type Result struct {
	Preview Size `json:"preview"`
	Working Size `json:"working"`
	Export  Size `json:"export"`
}

// Resolve runs all three sizing computations.
func Resolve(req Request) (Result, error) {
	var res Result

	working, err := WorkingSize(req.Source, req.Pixelate)
	if err != nil {
		return res, err
	}
	res.Working = working

	export, err := ExportSize(req.Source, working, req.Mode, req.Scale)
	if err != nil {
		return res, err
	}
	res.Export = export

	if req.Container != (Size{}) {
		preview, err := PreviewSize(req.Container, req.Source)
		if err != nil {
			return res, err
		}
		res.Preview = preview
	}
	return res, nil
}
