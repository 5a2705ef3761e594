package clips

import (
	"encoding/json"
	"fmt"
)

// Marshal encodes a video entry as the persisted JSON payload:
// {"metadata":{...},"clips":[{"id","start","end"}]}. The format carries no
// schema version; changing it breaks previously stored entries.
func Marshal(v Video) ([]byte, error) {
	if v.Clips == nil {
		v.Clips = []Clip{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode video entry: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a persisted payload.
func Unmarshal(data []byte) (Video, error) {
	var v Video
	if err := json.Unmarshal(data, &v); err != nil {
		return Video{}, fmt.Errorf("decode video entry: %w", err)
	}
	if v.Clips == nil {
		v.Clips = []Clip{}
	}
	return v, nil
}
