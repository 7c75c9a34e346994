package scenebuild

import (
	"fmt"

	"github.com/opticore/lumentrace/pkg/core"
	"github.com/opticore/lumentrace/pkg/geometry"
	"github.com/opticore/lumentrace/pkg/lightsource"
	"github.com/opticore/lumentrace/pkg/material"
	"github.com/opticore/lumentrace/pkg/scenegraph"
	"github.com/opticore/lumentrace/pkg/spectrum"
)

func toCoreVec3(v Vec3) core.Vec3 { return core.NewVec3(v.X, v.Y, v.Z) }

// Build validates a Document and constructs the scenegraph.Scene it
// describes, grounded on the teacher's pkg/loaders/pbrt.go parse-then-
// validate shape: resolve every referenced name before touching the
// scene graph, then add nodes in an order that guarantees a node's
// parent already exists. The node named "world" (if present) becomes
// the scene root's own geometry/material rather than a child node,
// matching how every concrete scenario in the spec describes "World =
// sphere radius 10" as the outermost container rather than as a node
// nested under an anonymous root.
func Build(doc *Document) (*scenegraph.Scene, error) {
	if doc.Version == "" {
		return nil, configErrorf("version", fmt.Errorf("required"))
	}

	components, err := buildComponents(doc.Components)
	if err != nil {
		return nil, err
	}
	materials, err := buildMaterials(doc.Materials, components)
	if err != nil {
		return nil, err
	}

	scene := scenegraph.NewScene()

	if world, ok := doc.Nodes["world"]; ok {
		if world.Parent != "" {
			return nil, configErrorf("nodes.world.parent", fmt.Errorf(`the "world" node is always the scene root and cannot declare a parent`))
		}
		if world.Light != nil {
			return nil, configErrorf("nodes.world.light", fmt.Errorf(`the "world" node cannot itself be a light source`))
		}
		shape, mat, err := buildGeometry(&world, materials)
		if err != nil {
			return nil, err
		}
		root := scene.Root()
		root.Name = "world"
		root.Geometry = shape
		root.Material = mat
	}

	remaining := map[string]NodeDescriptor{}
	for name, n := range doc.Nodes {
		if name == "world" {
			continue
		}
		remaining[name] = n
	}

	resolved := map[string]scenegraph.NodeIndex{"": scenegraph.Root, "world": scenegraph.Root}

	for len(remaining) > 0 {
		progressed := false
		for name, desc := range remaining {
			parentIdx, ok := resolved[desc.Parent]
			if !ok {
				continue
			}

			shape, mat, err := buildGeometry(&desc, materials)
			if err != nil {
				return nil, err
			}

			light, err := buildLight(desc.Light, doc)
			if err != nil {
				return nil, fmt.Errorf("scenebuild: node %q: %w", name, err)
			}

			var local scenegraph.Transform
			if desc.Rotation != nil {
				local = scenegraph.NewTransform(toCoreVec3(desc.Location), toCoreVec3(desc.Rotation.Axis), desc.Rotation.AngleRadians)
			} else {
				local = scenegraph.NewTransform(toCoreVec3(desc.Location), core.NewVec3(0, 0, 1), 0)
			}

			idx, err := scene.AddChild(parentIdx, scenegraph.Node{
				Name:     name,
				Local:    local,
				Geometry: shape,
				Material: mat,
				Light:    light,
			})
			if err != nil {
				return nil, configErrorf(fmt.Sprintf("nodes.%s", name), err)
			}
			resolved[name] = idx
			delete(remaining, name)
			progressed = true
		}
		if !progressed {
			names := make([]string, 0, len(remaining))
			for name := range remaining {
				names = append(names, name)
			}
			return nil, configErrorf("nodes", fmt.Errorf("cycle or unresolved parent among nodes %v", names))
		}
	}

	if err := scene.Validate(); err != nil {
		return nil, configErrorf("nodes", err)
	}
	return scene, nil
}

// buildGeometry constructs the one geometry variant a node descriptor
// names and resolves its material reference. A node with no geometry
// variant set (a light-only placeholder node) is allowed to return a nil
// shape.
func buildGeometry(desc *NodeDescriptor, materials map[string]*material.Material) (geometry.Shape, *material.Material, error) {
	count := 0
	if desc.Sphere != nil {
		count++
	}
	if desc.Box != nil {
		count++
	}
	if desc.Cylinder != nil {
		count++
	}
	if desc.Mesh != nil {
		count++
	}
	if count > 1 {
		return nil, nil, configErrorf("geometry", fmt.Errorf("a node may declare at most one of sphere/box/cylinder/mesh"))
	}

	switch {
	case desc.Sphere != nil:
		if desc.Sphere.Radius <= 0 {
			return nil, nil, geometryErrorf("sphere", fmt.Errorf("radius %v must be positive", desc.Sphere.Radius))
		}
		mat, err := lookupMaterial(desc.Sphere.Material, materials)
		if err != nil {
			return nil, nil, err
		}
		return geometry.NewSphere(desc.Sphere.Radius), mat, nil

	case desc.Box != nil:
		if desc.Box.Size.X <= 0 || desc.Box.Size.Y <= 0 || desc.Box.Size.Z <= 0 {
			return nil, nil, geometryErrorf("box", fmt.Errorf("size %+v must have all-positive components", desc.Box.Size))
		}
		mat, err := lookupMaterial(desc.Box.Material, materials)
		if err != nil {
			return nil, nil, err
		}
		return geometry.NewBox(desc.Box.Size.X, desc.Box.Size.Y, desc.Box.Size.Z), mat, nil

	case desc.Cylinder != nil:
		if desc.Cylinder.Radius <= 0 || desc.Cylinder.Length <= 0 {
			return nil, nil, geometryErrorf("cylinder", fmt.Errorf("radius %v and length %v must be positive", desc.Cylinder.Radius, desc.Cylinder.Length))
		}
		mat, err := lookupMaterial(desc.Cylinder.Material, materials)
		if err != nil {
			return nil, nil, err
		}
		return geometry.NewCylinder(desc.Cylinder.Radius, desc.Cylinder.Length), mat, nil

	case desc.Mesh != nil:
		if len(desc.Mesh.Triangles) == 0 {
			return nil, nil, geometryErrorf("mesh", fmt.Errorf("non-closed mesh: no triangles"))
		}
		if err := validateClosedMesh(desc.Mesh.Triangles, len(desc.Mesh.Vertices)); err != nil {
			return nil, nil, geometryErrorf("mesh", err)
		}
		verts := make([]core.Vec3, len(desc.Mesh.Vertices))
		for i, v := range desc.Mesh.Vertices {
			verts[i] = toCoreVec3(v)
		}
		mat, err := lookupMaterial(desc.Mesh.Material, materials)
		if err != nil {
			return nil, nil, err
		}
		return geometry.NewTriangleMesh(verts, desc.Mesh.Triangles), mat, nil

	default:
		return nil, nil, nil
	}
}

// validateClosedMesh checks that triangles forms a closed, watertight
// manifold: every vertex index is in range, and every undirected edge is
// shared by exactly two triangles. A boundary edge (shared by only one
// triangle) means the mesh has a hole; an edge shared by three or more
// triangles means it is non-manifold. TriangleMesh.Contains relies on a
// closed surface for its even-odd parity count, so either case must be
// rejected before the mesh reaches the scene graph.
func validateClosedMesh(triangles [][3]int, numVertices int) error {
	type edge struct{ a, b int }
	edgeCount := make(map[edge]int, len(triangles)*3)
	addEdge := func(i, j int) {
		if i > j {
			i, j = j, i
		}
		edgeCount[edge{i, j}]++
	}

	for _, tri := range triangles {
		for _, v := range tri {
			if v < 0 || v >= numVertices {
				return fmt.Errorf("triangle references vertex %d, have %d vertices", v, numVertices)
			}
		}
		addEdge(tri[0], tri[1])
		addEdge(tri[1], tri[2])
		addEdge(tri[2], tri[0])
	}

	for e, count := range edgeCount {
		if count != 2 {
			return fmt.Errorf("non-closed mesh: edge (%d,%d) is shared by %d triangle(s), want 2", e.a, e.b, count)
		}
	}
	return nil
}

func lookupMaterial(name string, materials map[string]*material.Material) (*material.Material, error) {
	if name == "" {
		return nil, nil
	}
	mat, ok := materials[name]
	if !ok {
		return nil, configErrorf("materials", fmt.Errorf("unknown material %q", name))
	}
	return mat, nil
}

func buildLight(desc *LightDescriptor, doc *Document) (*lightsource.LightSource, error) {
	if desc == nil {
		return nil, nil
	}

	var position lightsource.PositionDelegate
	switch desc.PositionMask {
	case "", "point":
		position = lightsource.PointPosition{}
	case "square":
		position = lightsource.SquareMaskPosition{Width: desc.MaskWidth, Height: desc.MaskHeight}
	case "circle":
		position = lightsource.CircularMaskPosition{Radius: desc.MaskRadius}
	default:
		return nil, fmt.Errorf("unknown light position mask %q", desc.PositionMask)
	}

	var direction lightsource.DirectionDelegate
	switch desc.DirectionMask {
	case "", "collimated":
		direction = lightsource.CollimatedDirection{}
	case "cone":
		direction = lightsource.ConeDirection{HalfAngle: desc.ConeHalfAngleRadians}
	case "lambertian":
		direction = lightsource.LambertianDirection{}
	default:
		return nil, fmt.Errorf("unknown light direction mask %q", desc.DirectionMask)
	}

	var wavelength lightsource.WavelengthDelegate
	if desc.Spectrum != "" {
		table, err := resolveNamedSpectrum(desc.Spectrum, doc)
		if err != nil {
			return nil, err
		}
		wavelength = lightsource.SpectrumWavelength(func(sampler core.Sampler) (float64, error) {
			return table.Sample(sampler)
		})
	} else {
		wavelength = lightsource.MonochromaticWavelength{Lambda: desc.Wavelength}
	}

	return lightsource.NewLightSource(position, direction, wavelength), nil
}

// resolveNamedSpectrum looks up a spectrum by scanning every component's
// absorption/emission table for a matching Name, since 6's schema keeps
// named tables inline with the components rather than in a separate
// top-level registry.
func resolveNamedSpectrum(name string, doc *Document) (*spectrum.Table, error) {
	for _, comp := range doc.Components {
		if comp.Emission != nil && comp.Emission.Name == name {
			return buildSpectrumTable(comp.Emission)
		}
		if comp.Absorption != nil && comp.Absorption.Name == name {
			return buildSpectrumTable(comp.Absorption)
		}
	}
	return nil, fmt.Errorf("unknown spectrum %q", name)
}

func buildSpectrumTable(desc *SpectrumDescriptor) (*spectrum.Table, error) {
	table, err := spectrum.NewTable(desc.Wavelengths, desc.Values)
	if err != nil {
		return nil, configErrorf("spectrum", err)
	}
	return table, nil
}

func buildComponents(descs map[string]ComponentDescriptor) (map[string]material.Component, error) {
	components := make(map[string]material.Component, len(descs))
	for name, desc := range descs {
		var absorption, emission *spectrum.Table
		var err error
		if desc.Absorption != nil {
			if absorption, err = buildSpectrumTable(desc.Absorption); err != nil {
				return nil, err
			}
		}
		if desc.Emission != nil {
			if emission, err = buildSpectrumTable(desc.Emission); err != nil {
				return nil, err
			}
		}

		var phase material.PhaseFunction
		switch desc.PhaseFunction {
		case "", "isotropic":
			phase = material.IsotropicPhaseFunction{}
		case "henyey-greenstein":
			phase = material.HenyeyGreenstein{G: desc.AsymmetryG}
		default:
			return nil, configErrorf(fmt.Sprintf("components.%s.phase_function", name), fmt.Errorf("unknown phase function %q", desc.PhaseFunction))
		}

		switch desc.Kind {
		case "absorber":
			components[name] = material.NewAbsorber(name, absorption)
		case "scatterer":
			components[name] = material.NewScatterer(name, absorption, phase)
		case "luminophore":
			lum, err := material.NewLuminophore(name, absorption, emission, desc.QuantumYield, phase)
			if err != nil {
				return nil, configErrorf(fmt.Sprintf("components.%s", name), err)
			}
			components[name] = lum
		case "reactor":
			components[name] = material.NewReactor(name, absorption)
		default:
			return nil, configErrorf(fmt.Sprintf("components.%s.kind", name), fmt.Errorf("unknown component kind %q", desc.Kind))
		}
	}
	return components, nil
}

func buildMaterials(descs map[string]MaterialDescriptor, components map[string]material.Component) (map[string]*material.Material, error) {
	materials := make(map[string]*material.Material, len(descs))
	for name, desc := range descs {
		if desc.RefractiveIndex <= 0 {
			return nil, configErrorf(fmt.Sprintf("materials.%s.refractive-index", name), fmt.Errorf("material %q refractive index %v must be positive", name, desc.RefractiveIndex))
		}
		comps := make([]material.Component, 0, len(desc.Components))
		for _, compName := range desc.Components {
			comp, ok := components[compName]
			if !ok {
				return nil, configErrorf(fmt.Sprintf("materials.%s.components", name), fmt.Errorf("unknown component %q", compName))
			}
			comps = append(comps, comp)
		}
		materials[name] = material.NewMaterial(name, material.ConstantIndex(desc.RefractiveIndex), comps...)
	}
	return materials, nil
}
