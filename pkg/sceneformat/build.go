package sceneformat

import (
	"fmt"
	"log"
	"path/filepath"

	"goray/pkg/accel"
	"goray/pkg/camera"
	"goray/pkg/film"
	"goray/pkg/geometry"
	"goray/pkg/imageio"
	"goray/pkg/light"
	"goray/pkg/material"
	"goray/pkg/meshio"
	"goray/pkg/sampler"
	"goray/pkg/scene"
	"goray/pkg/shape"
	"goray/pkg/spectrum"
	"goray/pkg/texture"
)

// Result is everything Build assembles from a parsed scene file: the scene
// graph itself plus the camera/film/sampler/integrator and output path
// named by the Camera/Film/Sampler/Integrator directives (spec.md §6).
type Result struct {
	Scene       *scene.Scene
	Camera      camera.Camera
	Film        *film.Film
	Sampler     sampler.Sampler
	Integrator  integratorKind
	MaxDepth    int
	OutputPath  string
}

// integratorKind names which integrator the Integrator directive selected;
// pkg/render's caller constructs the concrete integrator.Integrator value
// from this (kept here rather than importing pkg/integrator, which would
// make pkg/sceneformat depend on the render-loop layer unnecessarily).
type integratorKind string

const (
	IntegratorDirectLighting integratorKind = "directlighting"
	IntegratorPath           integratorKind = "path"
)

type areaLightSpec struct {
	L        spectrum.Spectrum
	TwoSided bool
}

// graphicsState is the pushed/popped unit of AttributeBegin/AttributeEnd:
// the current transform, current material, active area-light factory, and
// (per the curry-pbrt-derived supplement) the named-material table.
type graphicsState struct {
	CTM                geometry.Transform
	ReverseOrientation bool
	Material           material.Material
	AreaLight          *areaLightSpec
	NamedMaterials     map[string]material.Material
}

func (g graphicsState) clone() graphicsState {
	names := make(map[string]material.Material, len(g.NamedMaterials))
	for k, v := range g.NamedMaterials {
		names[k] = v
	}
	g.NamedMaterials = names
	return g
}

type recordedShape struct {
	stmt      Statement
	ctm       geometry.Transform
	material  material.Material
	areaLight *areaLightSpec
}

type builder struct {
	baseDir string

	state      graphicsState
	stateStack []graphicsState

	floatTextures    map[string]texture.Texture[float64]
	spectrumTextures map[string]texture.Texture[spectrum.Spectrum]

	objectDefs     map[string][]recordedShape
	objectBaseCTM  map[string]geometry.Transform
	currentObject  string

	prims          []accel.Primitive
	materials      []material.Material
	lights         []light.Light
	areaLights     []*light.DiffuseAreaLight
	infiniteLights []*light.InfiniteAreaLight

	cameraStmt *Statement
	filmStmt   *Statement
	samplerStmt *Statement
	integStmt  *Statement
	cameraToWorld geometry.Transform
}

// Build interprets a parsed statement stream into a fully-wired Result:
// the BVH-backed Scene, camera, film, sampler and integrator selection.
func Build(statements []Statement, baseDir string) (*Result, error) {
	b := &builder{
		baseDir: baseDir,
		state: graphicsState{
			CTM:            geometry.IdentityTransform(),
			NamedMaterials: map[string]material.Material{},
		},
		floatTextures:    map[string]texture.Texture[float64]{},
		spectrumTextures: map[string]texture.Texture[spectrum.Spectrum]{},
		objectDefs:       map[string][]recordedShape{},
		objectBaseCTM:    map[string]geometry.Transform{},
	}

	for _, stmt := range statements {
		if err := b.apply(stmt); err != nil {
			return nil, err
		}
	}

	return b.finish()
}

func (b *builder) apply(stmt Statement) error {
	switch stmt.Kind {
	case "LookAt":
		if len(stmt.Numbers) != 9 {
			return errAt(stmt.Tok, "LookAt requires 9 numbers")
		}
		n := stmt.Numbers
		eye := geometry.Vec3{X: n[0], Y: n[1], Z: n[2]}
		look := geometry.Vec3{X: n[3], Y: n[4], Z: n[5]}
		up := geometry.Vec3{X: n[6], Y: n[7], Z: n[8]}
		b.state.CTM = b.state.CTM.Compose(geometry.LookAt(eye, look, up))
	case "Translate":
		if len(stmt.Numbers) != 3 {
			return errAt(stmt.Tok, "Translate requires 3 numbers")
		}
		n := stmt.Numbers
		b.state.CTM = b.state.CTM.Compose(geometry.Translate(geometry.Vec3{X: n[0], Y: n[1], Z: n[2]}))
	case "Scale":
		if len(stmt.Numbers) != 3 {
			return errAt(stmt.Tok, "Scale requires 3 numbers")
		}
		n := stmt.Numbers
		b.state.CTM = b.state.CTM.Compose(geometry.Scale(geometry.Vec3{X: n[0], Y: n[1], Z: n[2]}))
	case "Rotate":
		if len(stmt.Numbers) != 4 {
			return errAt(stmt.Tok, "Rotate requires 4 numbers (angle x y z)")
		}
		n := stmt.Numbers
		b.state.CTM = b.state.CTM.Compose(geometry.RotateAxis(n[0], geometry.Vec3{X: n[1], Y: n[2], Z: n[3]}))
	case "Transform", "ConcatTransform":
		if len(stmt.Numbers) != 16 {
			return errAt(stmt.Tok, "%s requires 16 numbers", stmt.Kind)
		}
		var m geometry.Mat4
		n := stmt.Numbers
		// pbrt matrices are given column-major.
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				m[row][col] = n[col*4+row]
			}
		}
		t := geometry.NewTransform(m)
		if stmt.Kind == "Transform" {
			b.state.CTM = t
		} else {
			b.state.CTM = b.state.CTM.Compose(t)
		}
	case "ReverseOrientation":
		b.state.ReverseOrientation = !b.state.ReverseOrientation
	case "AttributeBegin":
		b.stateStack = append(b.stateStack, b.state.clone())
	case "AttributeEnd":
		if len(b.stateStack) == 0 {
			return errAt(stmt.Tok, "AttributeEnd without matching AttributeBegin")
		}
		b.state = b.stateStack[len(b.stateStack)-1]
		b.stateStack = b.stateStack[:len(b.stateStack)-1]
	case "WorldBegin", "WorldEnd":
		// No separate CTM reset: scenes in this format accumulate one
		// continuous transform stack from LookAt through to the first
		// Shape, matching how the teacher's camera setup and shape
		// placement share a single coordinate convention.
	case "Camera":
		s := stmt
		b.cameraStmt = &s
		b.cameraToWorld = b.state.CTM
	case "Film":
		s := stmt
		b.filmStmt = &s
	case "Sampler":
		s := stmt
		b.samplerStmt = &s
	case "Integrator":
		s := stmt
		b.integStmt = &s
	case "Texture":
		return b.applyTexture(stmt)
	case "Material":
		mat, err := b.buildMaterial(stmt.Subtype, stmt.Params)
		if err != nil {
			return err
		}
		b.state.Material = mat
	case "MakeNamedMaterial":
		mat, err := b.buildMaterial(stmt.Params.String("type", stmt.Subtype), stmt.Params)
		if err != nil {
			return err
		}
		b.state.NamedMaterials[stmt.Name] = mat
	case "NamedMaterial":
		mat, ok := b.state.NamedMaterials[stmt.Name]
		if !ok {
			return errAt(stmt.Tok, "unknown named material %q", stmt.Name)
		}
		b.state.Material = mat
	case "LightSource":
		return b.applyLightSource(stmt)
	case "AreaLightSource":
		if stmt.Subtype != "diffuse" {
			return errAt(stmt.Tok, "unsupported AreaLightSource subtype %q", stmt.Subtype)
		}
		spec := &areaLightSpec{
			L:        stmt.Params.Spectrum("L", spectrum.New(1, 1, 1)),
			TwoSided: stmt.Params.Bool("twosided", false),
		}
		b.state.AreaLight = spec
	case "Shape":
		return b.applyShape(stmt)
	case "ObjectBegin":
		if b.currentObject != "" {
			return errAt(stmt.Tok, "nested ObjectBegin not supported")
		}
		b.currentObject = stmt.Name
		b.objectBaseCTM[stmt.Name] = b.state.CTM
		if _, ok := b.objectDefs[stmt.Name]; !ok {
			b.objectDefs[stmt.Name] = nil
		}
	case "ObjectEnd":
		if b.currentObject == "" {
			return errAt(stmt.Tok, "ObjectEnd without matching ObjectBegin")
		}
		b.currentObject = ""
	case "ObjectInstance":
		return b.applyObjectInstance(stmt)
	default:
		return errAt(stmt.Tok, "directive %q not implemented", stmt.Kind)
	}
	return nil
}

func (b *builder) applyTexture(stmt Statement) error {
	switch stmt.Class {
	case "float":
		t, err := b.buildFloatTexture(stmt.Subtype, stmt.Params)
		if err != nil {
			return err
		}
		b.floatTextures[stmt.Name] = t
	case "spectrum", "color":
		t, err := b.buildSpectrumTexture(stmt.Subtype, stmt.Params)
		if err != nil {
			return err
		}
		b.spectrumTextures[stmt.Name] = t
	default:
		return errAt(stmt.Tok, "unsupported texture class %q", stmt.Class)
	}
	return nil
}

func (b *builder) buildFloatTexture(subtype string, p ParamSet) (texture.Texture[float64], error) {
	switch subtype {
	case "constant":
		return texture.NewConstant(p.Float("value", 1)), nil
	case "scale":
		inner, err := b.resolveFloatTexture(p, "tex", 1)
		if err != nil {
			return nil, err
		}
		return texture.Scale{Inner: inner, By: p.Float("scale", 1)}, nil
	case "checkerboard":
		even := texture.Texture[float64](texture.NewConstant(p.Float("tex1", 1)))
		odd := texture.Texture[float64](texture.NewConstant(p.Float("tex2", 0)))
		return texture.NewCheckerboard(even, odd, p.Float("uscale", 1), p.Float("vscale", 1)), nil
	default:
		return nil, fmt.Errorf("sceneformat: unsupported float texture subtype %q", subtype)
	}
}

func (b *builder) buildSpectrumTexture(subtype string, p ParamSet) (texture.Texture[spectrum.Spectrum], error) {
	switch subtype {
	case "constant":
		return texture.NewConstant(p.Spectrum("value", spectrum.New(1, 1, 1))), nil
	case "checkerboard":
		even := texture.Texture[spectrum.Spectrum](texture.NewConstant(p.Spectrum("tex1", spectrum.New(1, 1, 1))))
		odd := texture.Texture[spectrum.Spectrum](texture.NewConstant(p.Spectrum("tex2", spectrum.Black)))
		return texture.NewCheckerboard(even, odd, p.Float("uscale", 1), p.Float("vscale", 1)), nil
	case "imagemap":
		return b.loadImageTexture(p)
	default:
		return nil, fmt.Errorf("sceneformat: unsupported spectrum texture subtype %q", subtype)
	}
}

func (b *builder) loadImageTexture(p ParamSet) (texture.Texture[spectrum.Spectrum], error) {
	filename := p.String("filename", "")
	if filename == "" {
		return nil, fmt.Errorf("sceneformat: imagemap texture requires a filename")
	}
	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.baseDir, path)
	}
	scale := p.Float("scale", 1)
	maxDim := p.Int("maxresolution", 4096)

	switch filepath.Ext(path) {
	case ".exr":
		fi, err := imageio.LoadEXR(path)
		if err != nil {
			return nil, err
		}
		return texture.NewImageMapLinear(fi.Width, fi.Height, fi.Texels, scale), nil
	default:
		img, err := imageio.LoadPNG(path)
		if err != nil {
			return nil, err
		}
		return texture.NewImageMap(img, maxDim, scale), nil
	}
}

func (b *builder) resolveFloatTexture(p ParamSet, name string, def float64) (texture.Texture[float64], error) {
	v, ok := p[name]
	if !ok {
		return texture.NewConstant(def), nil
	}
	if v.Type == "texture" {
		t, ok := b.floatTextures[v.Values[0]]
		if !ok {
			return nil, fmt.Errorf("sceneformat: unknown float texture %q", v.Values[0])
		}
		return t, nil
	}
	return texture.NewConstant(p.Float(name, def)), nil
}

func (b *builder) resolveSpectrumTexture(p ParamSet, name string, def spectrum.Spectrum) texture.Texture[spectrum.Spectrum] {
	v, ok := p[name]
	if ok && v.Type == "texture" {
		if t, ok := b.spectrumTextures[v.Values[0]]; ok {
			return t
		}
	}
	return texture.NewConstant(p.Spectrum(name, def))
}

func (b *builder) buildMaterial(subtype string, p ParamSet) (material.Material, error) {
	switch subtype {
	case "matte":
		kd := b.resolveSpectrumTexture(p, "Kd", spectrum.Gray(0.5))
		var sigma texture.Texture[float64]
		if p.Has("sigma") {
			sigma = texture.NewConstant(p.Float("sigma", 0))
		}
		return material.Matte{Kd: kd, Sigma: sigma}, nil
	case "plastic":
		return material.Plastic{
			Kd:        b.resolveSpectrumTexture(p, "Kd", spectrum.Gray(0.25)),
			Ks:        b.resolveSpectrumTexture(p, "Ks", spectrum.Gray(0.25)),
			Roughness: texture.NewConstant(p.Float("roughness", 0.1)),
		}, nil
	case "mirror":
		return material.Mirror{Kr: b.resolveSpectrumTexture(p, "Kr", spectrum.Gray(0.9))}, nil
	case "glass":
		return material.Glass{
			Kr:  b.resolveSpectrumTexture(p, "Kr", spectrum.New(1, 1, 1)),
			Kt:  b.resolveSpectrumTexture(p, "Kt", spectrum.New(1, 1, 1)),
			Eta: texture.NewConstant(p.Float("eta", 1.5)),
		}, nil
	case "translucent":
		return material.Translucent{
			Kd:        b.resolveSpectrumTexture(p, "Kd", spectrum.Gray(0.25)),
			Ks:        b.resolveSpectrumTexture(p, "Ks", spectrum.Gray(0.25)),
			Roughness: texture.NewConstant(p.Float("roughness", 0.1)),
			Reflect:   b.resolveSpectrumTexture(p, "reflect", spectrum.Gray(0.5)),
			Transmit:  b.resolveSpectrumTexture(p, "transmit", spectrum.Gray(0.5)),
		}, nil
	case "uber":
		u := material.Uber{
			Kd:        b.resolveSpectrumTexture(p, "Kd", spectrum.Gray(0.25)),
			Ks:        b.resolveSpectrumTexture(p, "Ks", spectrum.Black),
			Kr:        b.resolveSpectrumTexture(p, "Kr", spectrum.Black),
			Kt:        b.resolveSpectrumTexture(p, "Kt", spectrum.Black),
			Roughness: texture.NewConstant(p.Float("roughness", 0.1)),
			Eta:       texture.NewConstant(p.Float("eta", 1.5)),
		}
		if p.Has("opacity") {
			op := texture.NewConstant(p.Spectrum("opacity", spectrum.New(1, 1, 1)))
			u.Opacity = op
		}
		return u, nil
	case "mix":
		names := p["namedmaterial1"]
		names2 := p["namedmaterial2"]
		if len(names.Values) == 0 || len(names2.Values) == 0 {
			return nil, fmt.Errorf("sceneformat: mix material requires namedmaterial1/namedmaterial2")
		}
		m1, ok := b.state.NamedMaterials[names.Values[0]]
		if !ok {
			return nil, fmt.Errorf("sceneformat: mix: unknown named material %q", names.Values[0])
		}
		m2, ok := b.state.NamedMaterials[names2.Values[0]]
		if !ok {
			return nil, fmt.Errorf("sceneformat: mix: unknown named material %q", names2.Values[0])
		}
		return material.Mix{M1: m1, M2: m2, Amount: texture.NewConstant(p.Float("amount", 0.5))}, nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("sceneformat: unsupported material subtype %q", subtype)
	}
}

func (b *builder) applyLightSource(stmt Statement) error {
	switch stmt.Subtype {
	case "point":
		from := stmt.Params.Point3("from", geometry.Point3{})
		worldFrom := b.state.CTM.Point(from)
		intensity := stmt.Params.Spectrum("I", spectrum.New(1, 1, 1))
		scale := stmt.Params.Float("scale", 1)
		b.lights = append(b.lights, light.PointLight{P: worldFrom, Intensity: intensity.Scale(scale)})
	case "distant":
		from := stmt.Params.Point3("from", geometry.Point3{})
		to := stmt.Params.Point3("to", geometry.Point3{Z: 1})
		dir := b.state.CTM.Vector(to.Sub(from)).Normalize()
		l := stmt.Params.Spectrum("L", spectrum.New(1, 1, 1))
		b.lights = append(b.lights, light.DistantLight{Direction: dir, L: l, WorldRadius: 1e4})
	case "infinite":
		l := stmt.Params.Spectrum("L", spectrum.New(1, 1, 1))
		if !stmt.Params.Has("mapname") {
			// constant-radiance environment, represented as a 1x1 map
			constMap := constantEnvironmentMap{l: l}
			inf := light.NewInfiniteAreaLight(b.state.CTM, constMap, 1, 1, 1e4)
			b.lights = append(b.lights, inf)
			b.infiniteLights = append(b.infiniteLights, inf)
			return nil
		}
		mapParams := ParamSet{}
		for k, v := range stmt.Params {
			mapParams[k] = v
		}
		mapParams["filename"] = stmt.Params["mapname"]
		tex, err := b.loadImageTexture(mapParams)
		if err != nil {
			return err
		}
		adapter := imageEnvironmentMap{tex: tex}
		inf := light.NewInfiniteAreaLight(b.state.CTM, adapter, 64, 32, 1e4)
		b.lights = append(b.lights, inf)
		b.infiniteLights = append(b.infiniteLights, inf)
	default:
		return errAt(stmt.Tok, "unsupported LightSource subtype %q", stmt.Subtype)
	}
	return nil
}

// constantEnvironmentMap is a 1-texel "infinite" light with uniform
// radiance in every direction, used by `LightSource "infinite"` statements
// with no mapname.
type constantEnvironmentMap struct {
	l spectrum.Spectrum
}

func (c constantEnvironmentMap) Lookup(uv geometry.Vec2) spectrum.Spectrum { return c.l }

// imageEnvironmentMap adapts a texture.Texture[spectrum.Spectrum] (an
// ImageMap loaded from an equirectangular PNG/EXR) to light.EnvironmentMap.
type imageEnvironmentMap struct {
	tex texture.Texture[spectrum.Spectrum]
}

func (m imageEnvironmentMap) Lookup(uv geometry.Vec2) spectrum.Spectrum {
	return m.tex.Evaluate(uv, geometry.Point3{})
}

func (b *builder) applyShape(stmt Statement) error {
	if b.currentObject != "" {
		b.objectDefs[b.currentObject] = append(b.objectDefs[b.currentObject], recordedShape{
			stmt: stmt, ctm: b.state.CTM, material: b.state.Material, areaLight: b.state.AreaLight,
		})
		return nil
	}
	prims, err := b.buildShapeStatement(stmt, b.state.CTM, b.state.ReverseOrientation, b.state.Material, b.state.AreaLight)
	if err != nil {
		return err
	}
	b.prims = append(b.prims, prims...)
	return nil
}

func (b *builder) applyObjectInstance(stmt Statement) error {
	recs, ok := b.objectDefs[stmt.Name]
	if !ok {
		return errAt(stmt.Tok, "unknown object instance %q", stmt.Name)
	}
	base := b.objectBaseCTM[stmt.Name]
	for _, rs := range recs {
		effective := b.state.CTM.Compose(base.Inverse()).Compose(rs.ctm)
		prims, err := b.buildShapeStatement(rs.stmt, effective, b.state.ReverseOrientation, rs.material, rs.areaLight)
		if err != nil {
			return err
		}
		b.prims = append(b.prims, prims...)
	}
	return nil
}

func (b *builder) buildShapeStatement(stmt Statement, ctm geometry.Transform, reverseOrientation bool, mat material.Material, areaLight *areaLightSpec) ([]accel.Primitive, error) {
	shapes, err := b.buildShapes(stmt, ctm, reverseOrientation)
	if err != nil {
		return nil, err
	}

	matID := len(b.materials)
	b.materials = append(b.materials, mat)

	out := make([]accel.Primitive, len(shapes))
	for i, sh := range shapes {
		lightID := -1
		if areaLight != nil {
			al := &light.DiffuseAreaLight{Shape: sh, Le_: areaLight.L, TwoSided: areaLight.TwoSided}
			lightID = len(b.areaLights)
			b.areaLights = append(b.areaLights, al)
			b.lights = append(b.lights, al)
		}
		out[i] = accel.Primitive{Shape: sh, MaterialID: matID, LightID: lightID}
	}
	return out, nil
}

func (b *builder) buildShapes(stmt Statement, ctm geometry.Transform, reverseOrientation bool) ([]shape.Shape, error) {
	p := stmt.Params
	switch stmt.Subtype {
	case "sphere":
		radius := p.Float("radius", 1)
		return []shape.Shape{shape.NewSphere(ctm, radius, reverseOrientation)}, nil
	case "disk":
		height := p.Float("height", 0)
		radius := p.Float("radius", 1)
		inner := p.Float("innerradius", 0)
		return []shape.Shape{shape.NewDisc(ctm, height, radius, inner, reverseOrientation)}, nil
	case "quad", "rectangle":
		corner := p.Point3("corner", geometry.Point3{X: -1, Y: -1})
		edgeU := p.Vector3("edgeu", geometry.Vec3{X: 2})
		edgeV := p.Vector3("edgev", geometry.Vec3{Y: 2})
		return []shape.Shape{shape.NewQuad(ctm, corner, edgeU, edgeV, reverseOrientation)}, nil
	case "trianglemesh":
		return buildTriangleMeshShapes(ctm, p)
	case "plymesh", "ply":
		filename := p.String("filename", "")
		if filename == "" {
			return nil, fmt.Errorf("sceneformat: plymesh requires a filename")
		}
		path := filename
		if !filepath.IsAbs(path) {
			path = filepath.Join(b.baseDir, path)
		}
		mesh, err := meshio.LoadPLY(path, ctm)
		if err != nil {
			return nil, err
		}
		return mesh.Triangles(), nil
	default:
		return nil, fmt.Errorf("sceneformat: unsupported shape subtype %q", stmt.Subtype)
	}
}

func buildTriangleMeshShapes(ctm geometry.Transform, p ParamSet) ([]shape.Shape, error) {
	pf := p.Floats("P")
	if len(pf) == 0 || len(pf)%3 != 0 {
		return nil, fmt.Errorf("sceneformat: trianglemesh requires \"point P\" in multiples of 3")
	}
	n := len(pf) / 3
	points := make([]geometry.Point3, n)
	for i := 0; i < n; i++ {
		points[i] = geometry.Point3{X: pf[3*i], Y: pf[3*i+1], Z: pf[3*i+2]}
	}

	indices := p.Ints("indices")
	if len(indices) == 0 || len(indices)%3 != 0 {
		return nil, fmt.Errorf("sceneformat: trianglemesh requires \"integer indices\" in multiples of 3")
	}

	var normals []geometry.Normal3
	if nf := p.Floats("N"); len(nf) == 3*n {
		normals = make([]geometry.Normal3, n)
		for i := 0; i < n; i++ {
			normals[i] = geometry.Normal3{X: nf[3*i], Y: nf[3*i+1], Z: nf[3*i+2]}
		}
	}

	var uvs []geometry.Vec2
	if uf := p.Floats("uv"); len(uf) == 2*n {
		uvs = make([]geometry.Vec2, n)
		for i := 0; i < n; i++ {
			uvs[i] = geometry.Vec2{X: uf[2*i], Y: uf[2*i+1]}
		}
	}

	mesh := shape.NewTriangleMesh(ctm, indices, points, normals, uvs)
	return mesh.Triangles(), nil
}

func (b *builder) finish() (*Result, error) {
	if b.cameraStmt == nil {
		return nil, fmt.Errorf("sceneformat: scene file has no Camera directive")
	}
	if b.filmStmt == nil {
		return nil, fmt.Errorf("sceneformat: scene file has no Film directive")
	}

	resX := b.filmStmt.Params.Int("xresolution", 640)
	resY := b.filmStmt.Params.Int("yresolution", 480)
	outputPath := b.filmStmt.Params.String("filename", "output.png")
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(b.baseDir, outputPath)
	}

	fov := b.cameraStmt.Params.Float("fov", 90)
	lensRadius := b.cameraStmt.Params.Float("lensradius", 0)
	focalDistance := b.cameraStmt.Params.Float("focaldistance", 1e6)
	cam := camera.NewPerspective(b.cameraToWorld, fov, resX, resY, lensRadius, focalDistance)

	spp := 16
	var samp sampler.Sampler
	samplerType := "halton"
	if b.samplerStmt != nil {
		samplerType = b.samplerStmt.Subtype
		spp = b.samplerStmt.Params.Int("pixelsamples", spp)
	}
	switch samplerType {
	case "stratified":
		samp = sampler.NewStratifiedSampler(spp)
	default:
		samp = sampler.NewHaltonSampler(spp)
	}

	integ := IntegratorDirectLighting
	maxDepth := 5
	if b.integStmt != nil {
		maxDepth = b.integStmt.Params.Int("maxdepth", maxDepth)
		switch b.integStmt.Subtype {
		case "path":
			integ = IntegratorPath
		case "directlighting", "":
			integ = IntegratorDirectLighting
		default:
			return nil, fmt.Errorf("sceneformat: unsupported Integrator subtype %q", b.integStmt.Subtype)
		}
	}

	visiblePrims := b.prims[:0:0]
	dropped := 0
	for _, p := range b.prims {
		if cam.ClipsOut(p.Shape.WorldBound()) {
			dropped++
			continue
		}
		visiblePrims = append(visiblePrims, p)
	}
	if dropped > 0 {
		log.Printf("sceneformat: dropped %d of %d primitives outside the camera frustum before BVH build", dropped, len(b.prims))
	}

	bvh := accel.NewBVHAggregate(visiblePrims, 1)
	sc := &scene.Scene{
		BVH:            bvh,
		Lights:         b.lights,
		Materials:      b.materials,
		AreaLights:     b.areaLights,
		InfiniteLights: b.infiniteLights,
	}

	worldRadius := sceneWorldRadius(sc)
	for _, inf := range b.infiniteLights {
		inf.WorldRadius = worldRadius
	}
	for i, lt := range b.lights {
		if d, ok := lt.(light.DistantLight); ok {
			d.WorldRadius = worldRadius
			b.lights[i] = d
		}
	}

	f := film.NewFilm(resX, resY)

	return &Result{
		Scene:      sc,
		Camera:     cam,
		Film:       f,
		Sampler:    samp,
		Integrator: integ,
		MaxDepth:   maxDepth,
		OutputPath: outputPath,
	}, nil
}

func sceneWorldRadius(sc *scene.Scene) float64 {
	_, radius := sc.WorldBound().BoundingSphere()
	if radius <= 0 {
		return 1e4
	}
	return radius
}
