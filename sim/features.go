package sim

// featuresFor fills fv (FeatureSize elements) with agent idx's view of its
// neighborhood and reports whether the agent is within InfectionRadius of
// any Infected agent this step.
//
// Layout:
//
//	[0-1]   velocity / MaxSpeed
//	[2]     speed ratio, clamped [0,1]
//	[3-4]   mean neighbor velocity / MaxSpeed (0 if no neighbors)
//	[5-6]   (neighbor centroid - self) / NeighborRadius (0 if no neighbors)
//	[7-8]   mean repulsion unit vector over neighbors inside SeparationRadius
//	[9]     neighbor count / 20, clamped [0,1]
//	[10-11] unit direction to nearest Infected neighbor (0 if none)
//	[12]    nearest Infected distance / InfectionRadius, clamped [0,1]; 1 if none
//	[13]    fraction of neighbors that are Infected
//
// Neighbor membership uses NeighborRadius; the infected-contact flag uses
// InfectionRadius independently, so an Infected agent inside the contact
// radius but outside the perception radius still transmits.
func (s *Simulation) featuresFor(idx int, fv []float32) bool {
	pos := Vec2{X: s.posX[idx], Y: s.posY[idx]}
	vel := Vec2{X: s.velX[idx], Y: s.velY[idx]}

	var alignSum, cohesionSum, separationSum Vec2
	var nearestInfectedDir Vec2
	count := 0
	sepCount := 0
	infectedCount := 0
	nearestInfectedDist := float32(-1)
	infectedContact := false

	s.grid.ForEachNeighbor(pos, func(j int) {
		if j == idx {
			return
		}
		otherPos := Vec2{X: s.posX[j], Y: s.posY[j]}
		offset := otherPos.Sub(pos)
		dist := offset.Length()
		if dist < s.cfg.NeighborRadius {
			alignSum = alignSum.Add(Vec2{X: s.velX[j], Y: s.velY[j]})
			cohesionSum = cohesionSum.Add(otherPos)
			count++
			if dist < s.cfg.SeparationRadius && dist > 0 {
				separationSum = separationSum.Sub(offset.Scale(1 / dist))
				sepCount++
			}
			if s.state[j] == Infected {
				infectedCount++
				if dist > 0 && (nearestInfectedDist < 0 || dist < nearestInfectedDist) {
					nearestInfectedDist = dist
					nearestInfectedDir = offset.Scale(1 / dist)
				}
			}
		}
		if s.state[j] == Infected && dist < s.cfg.InfectionRadius {
			infectedContact = true
		}
	})

	for i := range fv {
		fv[i] = 0
	}

	fv[0] = vel.X / s.cfg.MaxSpeed
	fv[1] = vel.Y / s.cfg.MaxSpeed
	fv[2] = clamp01(vel.Length() / s.cfg.MaxSpeed)

	if count > 0 {
		inv := 1 / float32(count)
		align := alignSum.Scale(inv).Scale(1 / s.cfg.MaxSpeed)
		fv[3] = align.X
		fv[4] = align.Y
		cohesion := cohesionSum.Scale(inv).Sub(pos).Scale(1 / s.cfg.NeighborRadius)
		fv[5] = cohesion.X
		fv[6] = cohesion.Y
	}

	if sepCount > 0 {
		sep := separationSum.Scale(1 / float32(sepCount))
		fv[7] = sep.X
		fv[8] = sep.Y
	}

	fv[9] = clamp01(float32(count) / 20)

	if nearestInfectedDist >= 0 {
		fv[10] = nearestInfectedDir.X
		fv[11] = nearestInfectedDir.Y
		fv[12] = clamp01(nearestInfectedDist / s.cfg.InfectionRadius)
	} else {
		fv[12] = 1
	}

	if count > 0 {
		fv[13] = float32(infectedCount) / float32(count)
	}

	return infectedContact
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
