package glrender

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v2.1/gl"
)

const vertexShaderSrc = `
#version 120
varying vec2 v_uv;
void main() {
    v_uv = gl_MultiTexCoord0.xy;
    gl_Position = gl_Vertex;
}
` + "\x00"

// The mask functions match transition.Mask; keep the two in step.
const fragmentShaderSrc = `
#version 120
uniform sampler2D u_texA;
uniform sampler2D u_texB;
uniform float u_blend;
uniform float u_flip;
uniform int u_mode;
uniform vec2 u_window_scale;
uniform vec4 u_bg;
varying vec2 v_uv;

const float EDGE = 0.05;
const float BLINDS = 10.0;
const float SQUARES = 16.0;
const float PI = 3.14159265358979;

float sweep(float x, float t) {
    if (t <= 0.0) return 0.0;
    if (t >= 1.0) return 1.0;
    float p = t * (1.0 + EDGE);
    return 1.0 - smoothstep(p - EDGE, p, x);
}

float cellNoise(vec2 c) {
    return fract(sin(dot(c, vec2(12.9898, 78.233))) * 43758.5453);
}

float mask(int mode, float t, vec2 uv) {
    float u = uv.x;
    float v = uv.y;
    if (mode == 1) return smoothstep(0.0, 1.0, t);
    if (mode == 2) return sweep(u, t);
    if (mode == 3) return sweep(1.0 - u, t);
    if (mode == 4) return sweep(v, t);
    if (mode == 5) return sweep(1.0 - v, t);
    if (mode == 6) return sweep((u + v) / 2.0, t);
    if (mode == 7) return sweep((1.0 - u + v) / 2.0, t);
    if (mode == 8) return sweep((u + 1.0 - v) / 2.0, t);
    if (mode == 9) return sweep((2.0 - u - v) / 2.0, t);
    if (mode == 10) return sweep(abs(u - 0.5) * 2.0, t);
    if (mode == 11) return sweep(abs(v - 0.5) * 2.0, t);
    if (mode == 12) return sweep(1.0 - abs(u - 0.5) * 2.0, t);
    if (mode == 13) return sweep(1.0 - abs(v - 0.5) * 2.0, t);
    if (mode == 14) return sweep(fract(u * BLINDS), t);
    if (mode == 15) return sweep(1.0 - fract(u * BLINDS), t);
    if (mode == 16) return sweep(fract(v * BLINDS), t);
    if (mode == 17) return sweep(1.0 - fract(v * BLINDS), t);
    if (mode == 18) return sweep(max(abs(u - 0.5), abs(v - 0.5)) * 2.0, t);
    if (mode == 19) return sweep(1.0 - max(abs(u - 0.5), abs(v - 0.5)) * 2.0, t);
    if (mode == 20) return sweep(cellNoise(floor(uv * SQUARES)), t);
    if (mode == 21) return sweep(clamp(atan(v - 0.5, u - 0.5) / (2.0 * PI) + 0.5, 0.0, 1.0), t);
    return t;
}

vec4 sampleScaled(sampler2D tex, vec2 uv) {
    vec2 tuv = (uv - 0.5) * u_window_scale + 0.5;
    if (any(lessThan(tuv, vec2(0.0))) || any(greaterThan(tuv, vec2(1.0)))) {
        return u_bg;
    }
    return texture2D(tex, tuv);
}

void main() {
    vec4 a = sampleScaled(u_texA, v_uv);
    vec4 b = sampleScaled(u_texB, v_uv);
    vec4 from = u_flip > 0.5 ? b : a;
    vec4 to = u_flip > 0.5 ? a : b;
    int mode = (u_mode < 0 || u_mode > 21) ? 0 : u_mode;
    float k = mask(mode, u_blend, v_uv);
    gl_FragColor = k <= 0.0 ? from : (k >= 1.0 ? to : mix(from, to, k));
}
` + "\x00"

type uniformLocations struct {
	texA, texB  int32
	blend, flip int32
	mode        int32
	windowScale int32
	bg          int32
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		msg := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(msg))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("shader compile error: %s", strings.TrimRight(msg, "\x00"))
	}
	return shader, nil
}

func compileProgram(vsrc, fsrc string) (uint32, error) {
	vs, err := compileShader(vsrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fsrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		msg := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(msg))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", strings.TrimRight(msg, "\x00"))
	}
	return prog, nil
}

func lookupUniforms(prog uint32) uniformLocations {
	loc := func(name string) int32 {
		return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
	}
	return uniformLocations{
		texA:        loc("u_texA"),
		texB:        loc("u_texB"),
		blend:       loc("u_blend"),
		flip:        loc("u_flip"),
		mode:        loc("u_mode"),
		windowScale: loc("u_window_scale"),
		bg:          loc("u_bg"),
	}
}
