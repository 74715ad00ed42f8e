package reel

// emitShadows projects every caster's light-facing triangles along the
// shadow light's direction onto each receiver's plane. Only flat receivers
// (geometry with no local Z extent, such as NewPlane) catch shadows; only
// shadow triangles landing inside the receiver's bounds are kept.
func (p *ScenePass) emitShadows(vp Mat4, w, h int) {
	light := p.shadowCaster()
	if light == nil || len(p.casters) == 0 || len(p.receivers) == 0 {
		return
	}
	toLight := light.direction()
	if toLight == (Vec3{}) {
		return
	}

	for _, recv := range p.receivers {
		origin := recv.world.Translation()
		normal := recv.world.TransformDir(Vec3{0, 0, 1}).Normalize()
		facing := toLight.Dot(normal)
		if facing <= 1e-6 {
			continue
		}
		bmin, bmax := recv.Mesh.Bounds()
		if bmax.Z-bmin.Z > 1e-9 {
			continue
		}
		invRecv := recv.world.InverseAffine()
		opacity := recv.Material.Opacity * recv.worldOpacity
		if opacity <= 0 {
			continue
		}
		shadowColor := recv.Material.Color
		shadowColor.A *= opacity
		if !recv.Material.ShadowOnly {
			// Lit receivers get a half-strength black shadow.
			shadowColor = Color{0, 0, 0, opacity * 0.5}
		}

		for _, caster := range p.casters {
			if caster == recv {
				continue
			}
			p.emitCasterShadow(caster, recv, origin, normal, toLight, facing, invRecv, bmin, bmax, shadowColor, vp, w, h)
		}
	}
}

// emitCasterShadow emits the shadow of one caster on one receiver plane.
func (p *ScenePass) emitCasterShadow(caster, recv *Node, origin, normal, toLight Vec3, facing float64,
	invRecv Mat4, bmin, bmax Vec3, col Color, vp Mat4, w, h int) {
	flip := linearDet(caster.world) < 0
	g := caster.Mesh
	for i := 0; i < g.NumTriangles(); i++ {
		a, b, c := g.Triangle(i)
		tri := [3]Vec3{
			caster.world.TransformPoint(a),
			caster.world.TransformPoint(b),
			caster.world.TransformPoint(c),
		}
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
		if flip {
			n = n.Mul(-1)
		}
		if n.Dot(toLight) <= 0 {
			continue
		}

		var proj [3]Vec3
		ok := true
		for k, v := range tri {
			height := v.Sub(origin).Dot(normal)
			if height < 0 {
				ok = false
				break
			}
			proj[k] = v.Sub(toLight.Mul(height / facing))
		}
		if !ok {
			continue
		}

		centroid := proj[0].Add(proj[1]).Add(proj[2]).Mul(1.0 / 3)
		local := invRecv.TransformPoint(centroid)
		if local.X < bmin.X || local.X > bmax.X || local.Y < bmin.Y || local.Y > bmax.Y {
			continue
		}

		cmd := RenderCommand{Type: CommandShadow, Node: recv, Color: col}
		if !p.projectTriangle(&cmd, vp, w, h, proj[0], proj[1], proj[2]) {
			continue
		}
		cmd.Depth -= shadowDepthBias
		p.commands = append(p.commands, cmd)
	}
}

// ShadowPoint returns where a world-space point's shadow lands on a
// receiver plane for the pass's shadow light. ok is false when there is no
// shadow light, the light is behind the plane or p is below it.
func (p *ScenePass) ShadowPoint(pt Vec3, recv *Node) (Vec3, bool) {
	light := p.shadowCaster()
	if light == nil || recv == nil {
		return Vec3{}, false
	}
	world := recv.WorldMatrix()
	origin := world.Translation()
	normal := world.TransformDir(Vec3{0, 0, 1}).Normalize()
	toLight := light.direction()
	facing := toLight.Dot(normal)
	if facing <= 1e-6 {
		return Vec3{}, false
	}
	height := pt.Sub(origin).Dot(normal)
	if height < 0 {
		return Vec3{}, false
	}
	return pt.Sub(toLight.Mul(height / facing)), true
}
