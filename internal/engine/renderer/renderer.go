// Package renderer draws the card scene with OpenGL.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/holocard/internal/card"
	"github.com/Faultbox/holocard/internal/engine/camera"
	"github.com/Faultbox/holocard/internal/engine/geometry"
	"github.com/Faultbox/holocard/internal/engine/lighting"
	"github.com/Faultbox/holocard/internal/engine/renderer/shaders"
	"github.com/Faultbox/holocard/internal/engine/shader"
	"github.com/Faultbox/holocard/internal/engine/texture"
	"github.com/Faultbox/holocard/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Background     mgl32.Vec3
	FrameColor     mgl32.Vec3
	FrameMetalness float32
	FrameRoughness float32
	Lights         lighting.Rig
}

// Renderer draws the card face and its frame.
// IMPORTANT: all methods must run on the thread owning the GL context.
type Renderer struct {
	config Config

	cardProgram  *shader.Program
	frameProgram *shader.Program

	cardMaterial  *shader.Material
	frameMaterial *shader.Material

	cardMesh  *gpuMesh
	frameMesh *gpuMesh
	layout    card.Layout

	width, height int // framebuffer pixels
}

// New initializes OpenGL and compiles the scene programs.
// Must be called AFTER the GL context is created.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(cfg.Background[0], cfg.Background[1], cfg.Background[2], 1.0)

	r := &Renderer{config: cfg}

	var err error
	r.cardProgram, err = shader.NewProgram("card", shaders.CardVertexShader, shaders.CardFragmentShader)
	if err != nil {
		return nil, err
	}
	r.frameProgram, err = shader.NewProgram("frame", shaders.FrameVertexShader, shaders.FrameFragmentShader)
	if err != nil {
		r.cardProgram.Delete()
		return nil, err
	}

	r.cardMaterial = shader.NewMaterial()
	r.frameMaterial = shader.NewMaterial()
	r.frameMaterial.SetVec3("uColor", cfg.FrameColor)
	r.frameMaterial.SetFloat("uMetalness", cfg.FrameMetalness)
	r.frameMaterial.SetFloat("uRoughness", cfg.FrameRoughness)
	r.frameMaterial.SetVec3("uAmbient", cfg.Lights.Ambient())

	return r, nil
}

// Build uploads the textures and creates the card and frame meshes.
// It returns the card material the card surface writes to.
func (r *Renderer) Build(set *texture.Set, layout card.Layout) (*shader.Material, error) {
	if r.cardMesh != nil {
		return nil, fmt.Errorf("scene already built")
	}
	texture.UploadSet(set)

	r.layout = layout
	r.cardMesh = uploadMesh(geometry.Plane(layout.Width, layout.Height))
	if layout.FrameThickness > 0 {
		r.frameMesh = uploadMesh(geometry.Box(layout.Width, layout.Height, layout.FrameThickness))
	}

	logger.Debug("scene meshes created",
		zap.Float32("width", layout.Width),
		zap.Float32("height", layout.Height),
		zap.Float32("frame_thickness", layout.FrameThickness),
	)
	return r.cardMaterial, nil
}

// SetSize resizes the GL viewport. width and height are logical pixels;
// the framebuffer is scaled by pixelRatio.
func (r *Renderer) SetSize(width, height int, pixelRatio float32) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	r.width = int(float32(width) * pixelRatio)
	r.height = int(float32(height) * pixelRatio)
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	logger.Debug("renderer resized",
		zap.Int("width", r.width),
		zap.Int("height", r.height),
	)
}

// Draw renders one frame from cam.
func (r *Renderer) Draw(cam *camera.Perspective) error {
	if r.cardMesh == nil {
		return fmt.Errorf("draw before build")
	}

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	viewProj := cam.ViewProjection()

	if r.frameMesh != nil {
		r.drawFrame(cam, viewProj)
	}

	r.cardProgram.Use()
	faceModel := r.layout.FaceModel()
	setMat4(r.cardProgram, "uModel", faceModel)
	setMat4(r.cardProgram, "uViewProj", viewProj)
	r.cardMaterial.Apply(r.cardProgram)
	r.cardMesh.draw()

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

func (r *Renderer) drawFrame(cam *camera.Perspective, viewProj mgl32.Mat4) {
	p := r.frameProgram
	p.Use()

	frameModel := r.layout.FrameModel()
	setMat4(p, "uModel", frameModel)
	setMat4(p, "uViewProj", viewProj)
	if loc := p.Uniform("uCameraPos"); loc >= 0 {
		gl.Uniform3f(loc, cam.Position[0], cam.Position[1], cam.Position[2])
	}

	dirs, colors, count := r.config.Lights.Packed()
	if count > 0 {
		if loc := p.Uniform("uLightDir"); loc >= 0 {
			gl.Uniform3fv(loc, count, &dirs[0])
		}
		if loc := p.Uniform("uLightColor"); loc >= 0 {
			gl.Uniform3fv(loc, count, &colors[0])
		}
	}
	if loc := p.Uniform("uLightCount"); loc >= 0 {
		gl.Uniform1i(loc, count)
	}

	r.frameMaterial.Apply(p)
	r.frameMesh.draw()
}

// ReadPixels reads the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	pixels := make([]byte, r.width*r.height*4)
	if len(pixels) == 0 {
		return pixels, 0, 0
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, r.width, r.height
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.cardMesh.delete()
	r.frameMesh.delete()
	if r.cardProgram != nil {
		r.cardProgram.Delete()
	}
	if r.frameProgram != nil {
		r.frameProgram.Delete()
	}
}

func setMat4(p *shader.Program, name string, m mgl32.Mat4) {
	if loc := p.Uniform(name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}
