// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kurento

// MediaType selects a media track kind.
type MediaType string

const (
	MediaTypeAudio MediaType = "AUDIO"
	MediaTypeVideo MediaType = "VIDEO"
	MediaTypeData  MediaType = "DATA"
)

// AudioCodec names an audio encoding.
type AudioCodec string

const (
	AudioCodecOpus AudioCodec = "OPUS"
	AudioCodecPCMU AudioCodec = "PCMU"
	AudioCodecRAW  AudioCodec = "RAW"
)

// VideoCodec names a video encoding.
type VideoCodec string

const (
	VideoCodecVP8  VideoCodec = "VP8"
	VideoCodecH264 VideoCodec = "H264"
	VideoCodecRAW  VideoCodec = "RAW"
)

// AudioCaps is the argument of SetAudioFormat.
type AudioCaps struct {
	Codec   AudioCodec `json:"codec"`
	Bitrate int        `json:"bitrate"`
}

// Fraction is a rational number, used for frame rates.
type Fraction struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// VideoCaps is the argument of SetVideoFormat.
type VideoCaps struct {
	Codec     VideoCodec `json:"codec"`
	Framerate Fraction   `json:"framerate"`
}

// ElementConnection describes one link between two elements.
type ElementConnection struct {
	Source            string    `json:"source" mapstructure:"source"`
	Sink              string    `json:"sink" mapstructure:"sink"`
	MediaType         MediaType `json:"type" mapstructure:"type"`
	SourceDescription string    `json:"sourceDescription" mapstructure:"sourceDescription"`
	SinkDescription   string    `json:"sinkDescription" mapstructure:"sinkDescription"`
}

// IceCandidate is a trickle-ICE candidate as exchanged with browsers.
type IceCandidate struct {
	Candidate     string `json:"candidate" mapstructure:"candidate"`
	SdpMid        string `json:"sdpMid" mapstructure:"sdpMid"`
	SdpMLineIndex int    `json:"sdpMLineIndex" mapstructure:"sdpMLineIndex"`
}
