//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Embedded video quad shader source.
//
//go:embed shaders/video_quad.wgsl
var videoQuadShaderSource string

// VideoQuadShaderSource returns the WGSL source of the quad shader.
func VideoQuadShaderSource() string {
	return videoQuadShaderSource
}

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not word aligned", len(spirvBytes))
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// shaderSource returns the module source for the quad shader, either as
// WGSL for the backend to translate or precompiled to SPIR-V.
func shaderSource(spirv bool) (hal.ShaderSource, error) {
	if videoQuadShaderSource == "" {
		return hal.ShaderSource{}, fmt.Errorf("video_quad shader source is empty")
	}
	if !spirv {
		return hal.ShaderSource{WGSL: videoQuadShaderSource}, nil
	}
	words, err := compileSPIRV(videoQuadShaderSource)
	if err != nil {
		return hal.ShaderSource{}, err
	}
	return hal.ShaderSource{SPIRV: words}, nil
}
