package main

import (
	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/interp"
)

// Display colors, RGBA.
var (
	offColor = [4]float32{0, 0, 0, 1}
	onColor  = [4]float32{0, 0x9c / 255.0, 0x59 / 255.0, 1}
)

// Screen presents the machine's framebuffer as a fullscreen textured quad.
type Screen struct {
	pixels  []byte // Framebuffer copy: one byte per pixel.
	width   int
	height  int
	shader  uint32
	vao     uint32
	vbo     uint32
	texture uint32
}

// NewScreen creates presentation resources for a framebuffer of the given
// dimensions. Requires a current OpenGL context.
func NewScreen(width, height int) (*Screen, error) {
	var s Screen
	s.width = width
	s.height = height
	s.pixels = make([]byte, width*height)

	var err error
	s.shader, err = compileProgram(vertex, fragment)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to compile shaders")
	}

	gl.UseProgram(s.shader)

	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	vertAttrib := uint32(gl.GetAttribLocation(s.shader, glStr("vertPos")))
	texCoordAttrib := uint32(gl.GetAttribLocation(s.shader, glStr("vertTexCoord")))

	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))

	gl.EnableVertexAttribArray(texCoordAttrib)
	gl.VertexAttribPointer(texCoordAttrib, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))

	gl.Uniform4fv(gl.GetUniformLocation(s.shader, glStr("offColor")), 1, &offColor[0])
	gl.Uniform4fv(gl.GetUniformLocation(s.shader, glStr("onColor")), 1, &onColor[0])

	s.texture = makeTexture()
	uploadTexture(s.texture, gl.RED, int32(width), int32(height), gl.RED, gl.UNSIGNED_BYTE, s.pixels)

	return &s, nil
}

// Update copies the machine's framebuffer into the screen texture.
func (s *Screen) Update(m *interp.Interpreter) {
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			v := byte(0)
			if m.Pixel(x, y) {
				v = 0xff
			}
			s.pixels[y*s.width+x] = v
		}
	}

	uploadTexture(s.texture, gl.RED, int32(s.width), int32(s.height), gl.RED, gl.UNSIGNED_BYTE, s.pixels)
}

// Draw renders the screen contents.
func (s *Screen) Draw() {
	gl.UseProgram(s.shader)
	gl.BindVertexArray(s.vao)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, s.texture)

	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

// Dispose clears up GL resources.
func (s *Screen) Dispose() {
	gl.DeleteTextures(1, &s.texture)
	gl.DeleteBuffers(1, &s.vbo)
	gl.DeleteVertexArrays(1, &s.vao)
	gl.DeleteProgram(s.shader)
}

var quadVertices = []float32{
	//  X, Y, Z, U, V
	-1.0, -1.0, 0.0, 0.0, 1.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	1.0, 1.0, 0.0, 1.0, 0.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
}
