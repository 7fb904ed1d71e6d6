package renderer

import (
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/Carmen-Shannon/oxy-frame/engine/resource"
	"github.com/gogpu/gputypes"
)

// RenderContext is the per-frame drawing handle passed to the draw callback.
// It is only valid for the duration of that callback.
//
// Builder-style methods return the context so calls can be chained:
//
//	ctx.Color(common.RGBA(1, 0, 0, 1)).Translate(100, 100, 0).DrawCircle(50)
type RenderContext struct {
	renderer *renderer
	pass     gpu.RenderPass
	stack    *common.MatrixStack
	ortho    common.Mat4
	color    common.Color
	bound    gputypes.PrimitiveTopology
	draws    int
	err      error
}

func newRenderContext(r *renderer, pass gpu.RenderPass) *RenderContext {
	return &RenderContext{
		renderer: r,
		pass:     pass,
		stack:    common.NewMatrixStack(),
		ortho:    common.Identity4(),
		color:    common.White,
		bound:    gputypes.PrimitiveTopologyTriangleList,
	}
}

// Background sets the clear color. It takes effect from the next frame and persists.
func (c *RenderContext) Background(r, g, b, a float32) *RenderContext {
	c.renderer.SetBackground(common.RGBA(r, g, b, a))
	return c
}

// Color sets the color of subsequent draws.
func (c *RenderContext) Color(color common.Color) *RenderContext {
	c.color = color
	return c
}

// Ortho sets an orthographic projection for subsequent draws.
func (c *RenderContext) Ortho(left, right, bottom, top, near, far float32) *RenderContext {
	c.ortho = common.Ortho(left, right, bottom, top, near, far)
	return c
}

// PushMatrix saves the current transform.
func (c *RenderContext) PushMatrix() *RenderContext {
	c.stack.Push()
	return c
}

// PopMatrix restores the last saved transform. It panics when nothing was pushed.
func (c *RenderContext) PopMatrix() *RenderContext {
	c.stack.Pop()
	return c
}

func (c *RenderContext) Translate(x, y, z float32) *RenderContext {
	c.stack.Translate(x, y, z)
	return c
}

func (c *RenderContext) Scale(x, y, z float32) *RenderContext {
	c.stack.Scale(x, y, z)
	return c
}

// Rotate rotates by theta radians around the axis (x, y, z).
func (c *RenderContext) Rotate(theta, x, y, z float32) *RenderContext {
	c.stack.Rotate(theta, x, y, z)
	return c
}

// Transform returns the current model matrix.
func (c *RenderContext) Transform() common.Mat4 {
	return c.stack.Top()
}

// DrawMesh draws m with the current projection, transform and color.
// After a failed uniform write the remaining draws of the frame are skipped and
// the error is returned from Renderer.Draw.
//
// Parameters:
//   - m: the mesh to draw; nil draws nothing
//
// Returns:
//   - *RenderContext: the context, for chaining
func (c *RenderContext) DrawMesh(m *resource.Mesh) *RenderContext {
	if m == nil || c.err != nil {
		return c
	}
	if m.Topology != c.bound {
		pipeline, ok := c.renderer.pipelines[m.Topology]
		if !ok {
			common.Logger().Warn("no pipeline for mesh topology", "mesh", m.Name, "topology", m.Topology)
			return c
		}
		c.pass.SetPipeline(pipeline)
		c.bound = m.Topology
	}

	group, offset, err := c.renderer.ring.write(&Uniforms{
		Ortho:     c.ortho,
		Transform: c.stack.Top(),
		Color:     c.color,
	})
	if err != nil {
		c.err = err
		return c
	}
	c.pass.SetBindGroup(0, group, []uint32{offset})
	c.pass.SetVertexBuffer(0, m.Vertex)
	c.pass.SetIndexBuffer(m.Index, gputypes.IndexFormatUint16)
	c.pass.DrawIndexed(m.IndexCount, 1)
	c.draws++
	return c
}

func (c *RenderContext) drawScaled(m *resource.Mesh, x, y, z float32) *RenderContext {
	c.stack.Push()
	c.stack.Scale(x, y, z)
	c.DrawMesh(m)
	c.stack.Pop()
	return c
}

// DrawCircle draws a filled circle of the given radius centered on the current origin.
func (c *RenderContext) DrawCircle(radius float32) *RenderContext {
	return c.drawScaled(c.renderer.cache.Circle(), radius, radius, 1)
}

// DrawWireCircle draws a circle outline of the given radius.
func (c *RenderContext) DrawWireCircle(radius float32) *RenderContext {
	return c.drawScaled(c.renderer.cache.WireCircle(), radius, radius, 1)
}

// DrawRectangle draws a filled rectangle with its lower-left corner on the current origin.
func (c *RenderContext) DrawRectangle(width, height float32) *RenderContext {
	return c.drawScaled(c.renderer.cache.Rectangle(), width, height, 1)
}

// DrawWireRectangle draws a rectangle outline.
func (c *RenderContext) DrawWireRectangle(width, height float32) *RenderContext {
	return c.drawScaled(c.renderer.cache.WireRectangle(), width, height, 1)
}

func (c *RenderContext) DrawSphere(radius float32) *RenderContext {
	return c.drawScaled(c.renderer.cache.Sphere(), radius, radius, radius)
}

func (c *RenderContext) DrawWireSphere(radius float32) *RenderContext {
	return c.drawScaled(c.renderer.cache.WireSphere(), radius, radius, radius)
}

// DrawCuboid draws a box of the given size centered on the current origin.
func (c *RenderContext) DrawCuboid(width, height, depth float32) *RenderContext {
	return c.drawScaled(c.renderer.cache.Cuboid(), width, height, depth)
}

func (c *RenderContext) DrawWireCuboid(width, height, depth float32) *RenderContext {
	return c.drawScaled(c.renderer.cache.WireCuboid(), width, height, depth)
}

// DrawCount returns the number of draws recorded so far this frame.
func (c *RenderContext) DrawCount() int {
	return c.draws
}

// Err returns the first error hit while recording, if any.
func (c *RenderContext) Err() error {
	return c.err
}
