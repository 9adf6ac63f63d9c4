//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vidview"
)

const (
	// quadVertexStride is vec4 position + vec2 tex_coord.
	quadVertexStride = 24

	// quadVertexCount is the triangle strip length.
	quadVertexCount = 4

	quadVertexDataSize = quadVertexStride * quadVertexCount
)

// quadVertexLayout matches VertexInput in video_quad.wgsl:
//
//	location 0: position (vec4<f32>)
//	location 1: tex_coord (vec2<f32>)
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 1}, // tex_coord
			},
		},
	}
}

// buildQuadVertexData serializes a quad into strip-ordered vertex bytes.
func buildQuadVertexData(q vidview.Quad) []byte {
	data := make([]byte, quadVertexDataSize)
	for i := range quadVertexCount {
		writeQuadVertex(data[i*quadVertexStride:], q.Positions[i], q.TexCoords[i])
	}
	return data
}

func writeQuadVertex(buf []byte, pos [4]float32, uv [2]float32) {
	for i, v := range pos {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(uv[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(uv[1]))
}

// decodeQuadVertexData is the inverse of buildQuadVertexData.
func decodeQuadVertexData(data []byte) (pos [4][4]float32, uv [4][2]float32) {
	for i := range quadVertexCount {
		v := data[i*quadVertexStride:]
		for j := range 4 {
			pos[i][j] = math.Float32frombits(binary.LittleEndian.Uint32(v[j*4:]))
		}
		uv[i][0] = math.Float32frombits(binary.LittleEndian.Uint32(v[16:]))
		uv[i][1] = math.Float32frombits(binary.LittleEndian.Uint32(v[20:]))
	}
	return pos, uv
}
