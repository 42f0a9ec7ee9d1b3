package game

import (
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/BenGale93/genesis-sub000/components"
	"github.com/BenGale93/genesis-sub000/neural"
	"github.com/BenGale93/genesis-sub000/systems"
)

// parallelThreshold is the minimum creature count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// creatureSnapshot captures read-only state for parallel processing.
type creatureSnapshot struct {
	Entity ecs.Entity
	ID     uint32
	Pos    components.Position
	Rot    components.Rotation
	Energy components.Energy
	Org    components.Organism
	Brain  *neural.Brain
}

// intent captures computed outputs to apply after the parallel phase.
type intent struct {
	Outputs    neural.BehaviorOutputs
	NewHeading float32
	AngVel     float32
	NewVelX    float32
	NewVelY    float32
	NewPosX    float32
	NewPosY    float32
	Failed     bool // brain evaluation returned an error
}

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	Food   []systems.Neighbor
	Kin    []systems.Neighbor
	Inputs [neural.BrainInputs]float32
}

// workChunk represents a range of creatures for a worker to process.
type workChunk struct {
	start, end int
	dt         float32
}

// parallelState holds resources for parallel brain evaluation.
type parallelState struct {
	snapshots  []creatureSnapshot
	intents    []intent
	scratches  []workerScratch
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState() *parallelState {
	numWorkers := runtime.GOMAXPROCS(0)
	scratches := make([]workerScratch, numWorkers)
	for i := range scratches {
		scratches[i].Food = make([]systems.Neighbor, 0, systems.MaxQueryResults)
		scratches[i].Kin = make([]systems.Neighbor, 0, systems.MaxQueryResults)
	}
	return &parallelState{
		numWorkers: numWorkers,
		scratches:  scratches,
		snapshots:  make([]creatureSnapshot, 0, 512),
		intents:    make([]intent, 0, 512),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g, i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(g *Game, workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			g.computeChunk(chunk.start, chunk.end, scratch, chunk.dt)
			p.doneChan <- struct{}{}
		}
	}
}

// updateBrainsParallel evaluates every brain and moves every creature.
// Brains are owned by exactly one creature, so workers never share one.
func (g *Game) updateBrainsParallel() {
	dt := g.config().Derived.DT32

	// Phase A: Build snapshots (single-threaded)
	n := g.buildSnapshots()
	if n == 0 {
		return
	}

	// Phase B: Compute - choose single or parallel based on creature count
	if n < parallelThreshold {
		g.computeChunk(0, n, &g.parallel.scratches[0], dt)
	} else {
		g.computeParallel(n, dt)
	}

	// Phase C: Apply intents (single-threaded, preserves determinism)
	g.applyIntents(dt)
}

// buildSnapshots captures every living creature with a brain and sizes the
// intent buffer to match. It returns the snapshot count.
func (g *Game) buildSnapshots() int {
	g.parallel.snapshots = g.parallel.snapshots[:0]

	query := g.creatureFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, _, rot, _, energy, org := query.Get()

		if !energy.Alive {
			continue
		}

		brain, ok := g.brains[org.ID]
		if !ok {
			continue
		}

		g.parallel.snapshots = append(g.parallel.snapshots, creatureSnapshot{
			Entity: entity,
			ID:     org.ID,
			Pos:    *pos,
			Rot:    *rot,
			Energy: *energy,
			Org:    *org,
			Brain:  brain,
		})
	}

	n := len(g.parallel.snapshots)
	if cap(g.parallel.intents) < n {
		g.parallel.intents = make([]intent, n)
	}
	g.parallel.intents = g.parallel.intents[:n]
	return n
}

// computeParallel dispatches work to the worker pool.
func (g *Game) computeParallel(n int, dt float32) {
	if !g.parallel.running {
		g.parallel.startWorkers(g)
	}

	numWorkers := g.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		g.parallel.workChan <- workChunk{start: start, end: end, dt: dt}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-g.parallel.doneChan
	}
}

// computeChunk senses, thinks and moves a range of creatures. It reads only
// snapshots and the spatial grids and writes only its own intents.
func (g *Game) computeChunk(i0, i1 int, scratch *workerScratch, dt float32) {
	caps := &g.caps

	for i := i0; i < i1; i++ {
		snap := &g.parallel.snapshots[i]
		in := &g.parallel.intents[i]

		scratch.Food = g.foodGrid.QueryRadiusInto(
			scratch.Food[:0], snap.Pos.X, snap.Pos.Y, caps.VisionRange, ecs.Entity{},
		)
		scratch.Kin = g.creatureGrid.QueryRadiusInto(
			scratch.Kin[:0], snap.Pos.X, snap.Pos.Y, caps.VisionRange, snap.Entity,
		)

		sensors := systems.ComputeSensors(snap.Rot, snap.Energy, snap.Org, scratch.Food, scratch.Kin, g.sensorParams)
		sensors.WriteInputs(scratch.Inputs[:])

		raw, err := snap.Brain.Activate(scratch.Inputs[:])
		in.Failed = err != nil
		if err != nil {
			in.Outputs = neural.DefaultOutputs()
		} else {
			in.Outputs = neural.DecodeOutputs(raw)
		}

		// Heading, then velocity along the new heading
		in.AngVel = in.Outputs.Rotation * caps.MaxTurnRate
		in.NewHeading = normalizeAngle(snap.Rot.Heading + in.AngVel*dt)

		speed := in.Outputs.Movement * caps.MaxSpeed
		hx, hy := headingVector(in.NewHeading)
		in.NewVelX = hx * speed
		in.NewVelY = hy * speed

		in.NewPosX = systems.Wrap(snap.Pos.X+in.NewVelX*dt, g.worldWidth)
		in.NewPosY = systems.Wrap(snap.Pos.Y+in.NewVelY*dt, g.worldHeight)
	}
}

// applyIntents writes computed results back to ECS components.
func (g *Game) applyIntents(dt float32) {
	failed := 0
	for i, snap := range g.parallel.snapshots {
		in := &g.parallel.intents[i]

		pos := g.posMap.Get(snap.Entity)
		vel := g.velMap.Get(snap.Entity)
		rot := g.rotMap.Get(snap.Entity)
		org := g.orgMap.Get(snap.Entity)
		if pos == nil || vel == nil || rot == nil || org == nil {
			continue
		}

		rot.Heading = in.NewHeading
		rot.AngVel = in.AngVel
		vel.X = in.NewVelX
		vel.Y = in.NewVelY
		pos.X = in.NewPosX
		pos.Y = in.NewPosY

		org.Previous = in.Outputs
		org.Timer += dt
		if in.Outputs.WantsTimerReset() {
			org.Timer = 0
		}

		if in.Failed {
			failed++
		}
	}
	if failed > 0 {
		logBrainFailures(g.tick, failed)
	}
}

// stopParallelWorkers should be called when shutting down the game.
func (g *Game) stopParallelWorkers() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
}
