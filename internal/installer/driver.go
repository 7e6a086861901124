// Copyright (c) 2025 Thorium

package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/suprsokr/kotorpatcher/internal/container"
	"github.com/suprsokr/kotorpatcher/internal/vpath"
)

// BaseGameData is the optional read-only base-installation resource
// index a run may consult when a resource is neither already installed
// nor shipped by the mod itself (spec §9 "resource resolution order").
type BaseGameData struct {
	Key  *container.KeyIndex
	Bifs []*container.BifArchive // indexed the same as Key.BifPaths
}

func (b *BaseGameData) lookup(name, typ string) ([]byte, bool) {
	if b == nil || b.Key == nil {
		return nil, false
	}
	e, ok := b.Key.Lookup(name, typ)
	if !ok || e.BifIndex < 0 || e.BifIndex >= len(b.Bifs) || b.Bifs[e.BifIndex] == nil {
		return nil, false
	}
	data, err := b.Bifs[e.BifIndex].Resource(e)
	if err != nil {
		return nil, false
	}
	return data, true
}

// RunContext threads every piece of mutable state a run needs
// explicitly through the call chain; nothing here is a package-level
// singleton (spec §9 "no global mutable state").
type RunContext struct {
	ModRoot  string
	GameRoot string
	Program  *PatchProgram
	Memory   *Memory
	Errors   *ErrorCollector
	Ledger   *Ledger
	Log      *Logger
	Compiler Compiler
	BaseGame *BaseGameData
	Cancel   func() bool // polled between patches; nil means never cancel

	capsules      map[string]*container.Capsule
	appliedCounts PatchCounts
	hackApplied   int
}

func newRunContext(modRoot, gameRoot string, program *PatchProgram, ledger *Ledger, log *Logger, compiler Compiler) *RunContext {
	return &RunContext{
		ModRoot:  modRoot,
		GameRoot: gameRoot,
		Program:  program,
		Memory:   NewMemory(),
		Errors:   &ErrorCollector{},
		Ledger:   ledger,
		Log:      log,
		Compiler: compiler,
		capsules: map[string]*container.Capsule{},
	}
}

func (rc *RunContext) cancelled() bool {
	return rc.Cancel != nil && rc.Cancel()
}

// isCapsuleDestination reports whether destination names an archive
// file rather than a loose-file folder (spec §3 "Destination").
func isCapsuleDestination(destination string) bool {
	switch strings.ToLower(filepath.Ext(destination)) {
	case ".mod", ".erf", ".sav", ".rim":
		return true
	default:
		return false
	}
}

func (rc *RunContext) capsuleAt(path string) (*container.Capsule, error) {
	key := strings.ToLower(path)
	if c, ok := rc.capsules[key]; ok {
		return c, nil
	}
	var c *container.Capsule
	if vpath.SafeIsFile(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read capsule %s: %w", path, err)
		}
		c, err = container.LoadCapsule(path, data)
		if err != nil {
			return nil, fmt.Errorf("load capsule %s: %w", path, err)
		}
	} else {
		c = container.NewCapsule(path)
	}
	rc.capsules[key] = c
	return c, nil
}

func (rc *RunContext) saveCapsules() error {
	for _, c := range rc.capsules {
		if err := rc.Ledger.BackupBeforeWrite(c.Path()); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(c.Path()), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(c.Path(), c.Save(), 0o644); err != nil {
			return fmt.Errorf("write capsule %s: %w", c.Path(), err)
		}
	}
	return nil
}

// resourceLocation is where one patch's target resource lives: either
// inside a capsule (Capsule != nil) or as a loose file (Path).
type resourceLocation struct {
	Capsule *container.Capsule
	ResName string
	ResType string
	Path    string
}

func (rc *RunContext) resolveLocation(base Base) (resourceLocation, error) {
	saveAs := base.saveAsOrSource()
	if rc.Program.PlatformCaseFold {
		saveAs = strings.ToLower(saveAs)
	}
	destination := base.Destination
	if destination == "" {
		destination = "."
	}
	if rc.Program.PlatformCaseFold {
		destination = strings.ToLower(destination)
	}
	if isCapsuleDestination(destination) {
		destAbs := vpath.Resolve(rc.GameRoot, destination)
		c, err := rc.capsuleAt(destAbs)
		if err != nil {
			return resourceLocation{}, err
		}
		name, typ := vpath.SplitFilename(saveAs, -1)
		return resourceLocation{Capsule: c, ResName: name, ResType: typ}, nil
	}
	destAbs := vpath.Resolve(rc.GameRoot, destination)
	return resourceLocation{Path: filepath.Join(destAbs, saveAs)}, nil
}

func (l resourceLocation) exists() bool {
	if l.Capsule != nil {
		return l.Capsule.Exists(l.ResName, l.ResType)
	}
	return vpath.SafeIsFile(l.Path)
}

func (l resourceLocation) read() ([]byte, error) {
	if l.Capsule != nil {
		return l.Capsule.Resource(l.ResName, l.ResType)
	}
	resolved := vpath.Resolve(filepath.Dir(l.Path), filepath.Base(l.Path))
	return os.ReadFile(resolved)
}

func (rc *RunContext) write(l resourceLocation, data []byte) error {
	if l.Capsule != nil {
		l.Capsule.SetResource(l.ResName, l.ResType, data)
		return nil
	}
	if err := rc.Ledger.BackupBeforeWrite(l.Path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(l.Path, data, 0o644)
}

// handleOverrideShadow implements the resolved open question: a loose
// file in Override/ only shadows a capsule resource, so the
// OverrideType check only fires for capsule destinations (SPEC_FULL §D).
func (rc *RunContext) handleOverrideShadow(base Base, saveAs string) {
	if !isCapsuleDestination(base.Destination) {
		return
	}
	shadow := vpath.Resolve(rc.GameRoot, filepath.Join("Override", saveAs))
	if !vpath.SafeIsFile(shadow) {
		return
	}
	switch base.OverrideType {
	case OverrideIgnore:
	case OverrideWarn:
		rc.Log.Warningf("Override/%s shadows the copy just patched into %s", saveAs, base.Destination)
	case OverrideRename:
		renamed := shadow + ".old"
		for n := 2; vpath.SafeExists(renamed); n++ {
			renamed = fmt.Sprintf("%s.old%d", shadow, n)
		}
		if err := os.Rename(shadow, renamed); err != nil {
			rc.Log.Warningf("could not rename shadowing file %s: %v", shadow, err)
		} else {
			rc.Log.Notef("renamed shadowing file %s to %s", shadow, renamed)
		}
	}
}

// resolveInputBytes implements the resource resolution chain: the
// resource already at the output location, else the mod's own source
// tree, else the base installation (spec §9).
func (rc *RunContext) resolveInputBytes(base Base, loc resourceLocation) ([]byte, bool, error) {
	if loc.exists() {
		data, err := loc.read()
		return data, true, err
	}
	if base.SourceFile != "" {
		candidates := []string{
			vpath.Resolve(rc.ModRoot, base.SourceFile),
			vpath.Resolve(rc.ModRoot, filepath.Join("tslpatchdata", base.SourceFile)),
		}
		for _, c := range candidates {
			if vpath.SafeIsFile(c) {
				data, err := os.ReadFile(c)
				return data, false, err
			}
		}
	}
	name, typ := vpath.SplitFilename(base.saveAsOrSource(), -1)
	if data, ok := rc.BaseGame.lookup(name, typ); ok {
		return data, false, nil
	}
	return nil, false, nil
}

// applyFunc is the uniform shape every structured patch algorithm
// presents to the driver once its existing bytes are in hand.
type applyFunc func(existing []byte, mem *Memory) (PatchResult, error)

func (rc *RunContext) runStructured(kind string, base Base, counter *int, apply applyFunc) {
	loc, err := rc.resolveLocation(base)
	if err != nil {
		rc.Errors.Addf("%s %s: %w", kind, base.saveAsOrSource(), err)
		return
	}
	existing, _, err := rc.resolveInputBytes(base, loc)
	if err != nil {
		rc.Errors.Addf("%s %s: read existing: %w", kind, base.saveAsOrSource(), err)
		return
	}

	result, err := apply(existing, rc.Memory)
	if err != nil {
		rc.Errors.Addf("%s %s: %w", kind, base.saveAsOrSource(), err)
		return
	}
	if result.Skip {
		rc.Log.Verbosef("%s %s: no change, skipped", kind, base.saveAsOrSource())
		return
	}

	if err := rc.write(loc, result.Data); err != nil {
		rc.Errors.Addf("%s %s: write: %w", kind, base.saveAsOrSource(), err)
		return
	}
	LogDiff(rc.Log, fmt.Sprintf("%s %s", kind, base.saveAsOrSource()), existing, result.Data)
	rc.handleOverrideShadow(base, base.saveAsOrSource())
	*counter++
	rc.Log.Notef("patched %s %s -> %s", kind, base.SourceFile, base.Destination)
}

// RunSummary is the end-of-run tally install() hands back (spec §8).
type RunSummary struct {
	Applied  PatchCounts
	Errors   []error
	Warnings []error
}

// Install runs a full patch program against gameRoot (spec §4.9 /
// §6 "install"). changesIniPath follows SPEC_FULL §C.4's legacy
// three-way resolution.
func Install(modRoot, gameRoot, changesIniPath string, log *Logger) (*RunSummary, error) {
	if log == nil {
		log = NewLogger()
	}
	resolvedIni, err := ResolveChangesIniPath(modRoot, changesIniPath)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(resolvedIni)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", resolvedIni, err)
	}
	program, err := ParseProgram(raw, modRoot)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", resolvedIni, err)
	}

	if program.Settings.RequiredFile != "" {
		req := vpath.Resolve(gameRoot, filepath.Join("Override", program.Settings.RequiredFile))
		if !vpath.SafeIsFile(req) {
			msg := program.Settings.RequiredMessage
			if msg == "" {
				msg = fmt.Sprintf("required file %s is missing", program.Settings.RequiredFile)
			}
			return nil, fmt.Errorf("%s", msg)
		}
	}

	ledger, err := NewLedger(modRoot, gameRoot, now(), log)
	if err != nil {
		return nil, err
	}

	rc := newRunContext(modRoot, gameRoot, program, ledger, log, &ExternalCompiler{})
	rc.run()

	if err := rc.saveCapsules(); err != nil {
		rc.Errors.Add(err)
	}
	if err := ledger.Finish(); err != nil {
		rc.Errors.Add(err)
	}

	return &RunSummary{Applied: rc.appliedCounts, Errors: rc.Errors.Errors, Warnings: rc.Errors.Warnings}, nil
}

func now() time.Time { return time.Now() }

// run sequences every list in the resolved driver order (spec §9 open
// question: Install -> TLK -> 2DA -> GFF -> Hack -> NSS -> NCS -> SSF).
func (rc *RunContext) run() {
	counts := &rc.appliedCounts

	for _, p := range rc.Program.InstallList {
		if rc.cancelled() {
			return
		}
		rc.runInstallFile(p, &counts.Install)
	}
	for i := range rc.Program.TLKList {
		if rc.cancelled() {
			return
		}
		p := &rc.Program.TLKList[i]
		rc.runStructured("TLK", p.Base, &counts.TLK, func(existing []byte, mem *Memory) (PatchResult, error) {
			return ApplyTLK(p, existing, mem)
		})
	}
	if female := rc.femaleTLKPatches(); len(female) > 0 {
		for i := range female {
			if rc.cancelled() {
				return
			}
			p := &female[i]
			rc.runStructured("TLK", p.Base, &counts.TLK, func(existing []byte, mem *Memory) (PatchResult, error) {
				return ApplyTLK(p, existing, mem)
			})
		}
	}
	for i := range rc.Program.TwoDAList {
		if rc.cancelled() {
			return
		}
		p := &rc.Program.TwoDAList[i]
		rc.runStructured("2DA", p.Base, &counts.TwoDA, func(existing []byte, mem *Memory) (PatchResult, error) {
			return ApplyTwoDA(p, existing, mem)
		})
	}
	for i := range rc.Program.GFFList {
		if rc.cancelled() {
			return
		}
		p := &rc.Program.GFFList[i]
		rc.runStructured("GFF", p.Base, &counts.GFF, func(existing []byte, mem *Memory) (PatchResult, error) {
			return ApplyGFF(p, existing, mem)
		})
	}
	for i := range rc.Program.HackList {
		if rc.cancelled() {
			return
		}
		p := &rc.Program.HackList[i]
		rc.runStructured("Hack", p.Base, &rc.hackApplied, func(existing []byte, mem *Memory) (PatchResult, error) {
			return ApplyHack(p, existing, mem)
		})
	}
	for i := range rc.Program.NSSList {
		if rc.cancelled() {
			return
		}
		p := &rc.Program.NSSList[i]
		rc.runStructured("NSS", p.Base, &counts.NSS, func(existing []byte, mem *Memory) (PatchResult, error) {
			source, _, err := rc.resolveInputBytes(p.Base, resourceLocation{})
			if err != nil {
				return PatchResult{}, err
			}
			if source == nil {
				return PatchResult{}, fmt.Errorf("nss source %s not found", p.SourceFile)
			}
			return ApplyNSS(p, source, mem, rc.Compiler)
		})
	}
	for i := range rc.Program.NCSList {
		if rc.cancelled() {
			return
		}
		p := &rc.Program.NCSList[i]
		rc.runStructured("NCS", p.Base, &counts.NCS, func(existing []byte, mem *Memory) (PatchResult, error) {
			source, _, err := rc.resolveInputBytes(p.Base, resourceLocation{})
			if err != nil {
				return PatchResult{}, err
			}
			return ApplyNCS(source)
		})
	}
	for i := range rc.Program.SSFList {
		if rc.cancelled() {
			return
		}
		p := &rc.Program.SSFList[i]
		rc.runStructured("SSF", p.Base, &counts.SSF, func(existing []byte, mem *Memory) (PatchResult, error) {
			return ApplySSF(p, existing, mem)
		})
	}

	rc.Log.Notef("run complete: %d patches applied, %d errors, %d warnings",
		counts.Total(), len(rc.Errors.Errors), len(rc.Errors.Warnings))
}

// defaultFemaleTLKSource is the conventional sibling of append.tlk
// carrying female-specific voiceover/text overrides (spec §4.4, §6
// mod tree layout).
const defaultFemaleTLKSource = "appendf.tlk"

// femaleTLKPatches clones the male TLKList into a dialogf.tlk run when
// the game install ships a female talk table, following the original
// tool's get_tlk_patches: skip an empty patch, retarget SaveAs to
// dialogf.tlk, and set SourceFile to appendf.tlk only if the mod ships
// one (SPEC_FULL §D). Each clone keeps the male patch's modifiers, whose
// text and sound the parser already copied out of append.tlk, so the
// female table receives the same rows as dialog.tlk; the rows of
// appendf.tlk are not read.
func (rc *RunContext) femaleTLKPatches() []TLKPatch {
	if len(rc.Program.TLKList) == 0 {
		return nil
	}
	if !vpath.SafeIsFile(vpath.Resolve(rc.GameRoot, "dialogf.tlk")) {
		return nil
	}
	useFemaleSource := vpath.SafeIsFile(vpath.Resolve(rc.ModRoot, defaultFemaleTLKSource)) ||
		vpath.SafeIsFile(vpath.Resolve(rc.ModRoot, filepath.Join("tslpatchdata", defaultFemaleTLKSource)))

	var out []TLKPatch
	for _, p := range rc.Program.TLKList {
		if len(p.Modifiers) == 0 {
			continue
		}
		clone := p
		if useFemaleSource {
			clone.SourceFile = defaultFemaleTLKSource
		}
		clone.SaveAs = "dialogf.tlk"
		out = append(out, clone)
	}
	return out
}

func (rc *RunContext) runInstallFile(p InstallFilePatch, counter *int) {
	loc, err := rc.resolveLocation(p.Base)
	if err != nil {
		rc.Errors.Addf("InstallList %s: %w", p.SourceFile, err)
		return
	}
	if loc.exists() && !p.ReplaceFile {
		rc.Log.Verbosef("InstallList %s: already present, not replacing", p.saveAsOrSource())
		return
	}
	srcPath := vpath.Resolve(rc.ModRoot, p.SourceFile)
	data, err := os.ReadFile(srcPath)
	if err != nil {
		rc.Errors.Addf("InstallList %s: %w", p.SourceFile, err)
		return
	}
	result, err := ApplyInstallFile(data)
	if err != nil {
		rc.Errors.Addf("InstallList %s: %w", p.SourceFile, err)
		return
	}
	if err := rc.write(loc, result.Data); err != nil {
		rc.Errors.Addf("InstallList %s: %w", p.SourceFile, err)
		return
	}
	rc.handleOverrideShadow(p.Base, p.saveAsOrSource())
	*counter++
	rc.Log.Notef("installed %s -> %s", p.SourceFile, p.Destination)
}

// ResolveChangesIniPath implements SPEC_FULL §C.4's legacy resolution:
// an absolute literal path, else <mod_root>/<name>, else
// <mod_root>/tslpatchdata/<name>. A relative name is looked up under
// modRoot only, never against the working directory.
func ResolveChangesIniPath(modRoot, changesIniPath string) (string, error) {
	name := changesIniPath
	if name == "" {
		name = "changes.ini"
	}
	if filepath.IsAbs(name) && vpath.SafeIsFile(name) {
		return name, nil
	}
	direct := vpath.Resolve(modRoot, name)
	if vpath.SafeIsFile(direct) {
		return direct, nil
	}
	nested := vpath.Resolve(modRoot, filepath.Join("tslpatchdata", name))
	if vpath.SafeIsFile(nested) {
		return nested, nil
	}
	return "", fmt.Errorf("changes ini %q not found under %s (checked mod root and tslpatchdata)", name, modRoot)
}

// Validate parses a program without running it, returning its patch
// counts and any structural errors (SPEC_FULL §C.1).
func Validate(modRoot, changesIniPath string) (PatchCounts, error) {
	resolvedIni, err := ResolveChangesIniPath(modRoot, changesIniPath)
	if err != nil {
		return PatchCounts{}, err
	}
	raw, err := os.ReadFile(resolvedIni)
	if err != nil {
		return PatchCounts{}, fmt.Errorf("read %s: %w", resolvedIni, err)
	}
	program, err := ParseProgram(raw, modRoot)
	if err != nil {
		return PatchCounts{}, err
	}
	return program.Counts(), nil
}
