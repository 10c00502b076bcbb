package grubcfg

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/asafelobotomy/LUXusb-sub001/bootparam"
	"github.com/asafelobotomy/LUXusb-sub001/catalog"
	"github.com/asafelobotomy/LUXusb-sub001/config"
	"github.com/asafelobotomy/LUXusb-sub001/discover"
	"github.com/asafelobotomy/LUXusb-sub001/humanize"
	"github.com/asafelobotomy/LUXusb-sub001/layout"
)

// preambleTpl is the global script preamble: module loads, the TPM
// workaround, graphics setup with its text-terminal fallback, menu
// appearance and the partition search block. Everything below it runs in
// menu-entry scope.
const preambleTpl = `# grub.cfg generated by luxusb-grub. Do not edit; regenerate instead.
# {{ .ImageCount }} image{{ if ne .ImageCount 1 }}s{{ end }}

insmod part_gpt
insmod part_msdos
insmod fat
insmod exfat
insmod ext2
insmod loopback
insmod iso9660
insmod udf
insmod linux
insmod linux16
insmod search
insmod search_label
insmod test
insmod all_video
insmod gfxterm
{{ if .UnloadTPMFirst }}
# An active tpm module hangs loopback mounts on affected firmware. Unload
# it here, before the first mount anywhere in this script.
rmmod tpm
{{ end }}
set gfxmode=auto
set gfxpayload=keep
load_video
if loadfont $prefix/fonts/unicode.pf2 ; then
    terminal_output gfxterm
{{- if .FontFallback }}
else
    terminal_output console
    echo "Font not found, falling back to text mode"
{{- end }}
fi

set menu_color_normal=white/black
set menu_color_highlight=black/light-gray
set pager=1

set timeout={{ .Timeout }}
set timeout_style=menu
set default=0

{{ .SearchBlock }}`

type preambleData struct {
	ImageCount     int
	Timeout        int
	UnloadTPMFirst bool
	FontFallback   bool
	SearchBlock    string
}

// Generate renders the complete boot script for the given layout and
// catalog. It is pure: identical inputs produce byte-identical output, and
// the caller writes the result to the boot partition.
func Generate(l *layout.Layout, images []catalog.Image, opts config.Options) ([]byte, error) {
	data := l.Partition(layout.RoleData)
	if data == nil {
		return nil, ErrNoDataPartition
	}

	chain := discover.Chain(opts.VolumeLabel, l.DataIndex())
	tree, err := BuildTree(images, chain, opts)
	if err != nil {
		return nil, err
	}

	quirks := DefaultRegistry()

	var buf bytes.Buffer
	t := template.Must(template.New("preamble").Parse(preambleTpl))
	if err := t.Execute(&buf, preambleData{
		ImageCount:     len(images),
		Timeout:        opts.MenuTimeout,
		UnloadTPMFirst: quirks.UnloadTPMFirst,
		FontFallback:   quirks.FontFallback,
		SearchBlock:    searchBlock(chain, 0),
	}); err != nil {
		return nil, fmt.Errorf("rendering preamble: %w", err)
	}

	w := &scriptWriter{buf: &buf}
	w.helpEntry(tree, images)
	for i := range tree.Roots {
		w.rootEntry(&tree.Roots[i], quirks)
	}
	w.systemEntries()

	return buf.Bytes(), nil
}

// searchBlock renders the three-tier label search at the given indent.
// The first step runs unconditionally; each later step only runs if root
// is still unset.
func searchBlock(chain discover.SearchChain, depth int) string {
	pad := strings.Repeat("    ", depth)
	var b strings.Builder
	for i, step := range chain {
		cmd := "search --no-floppy --set=root --label " + step.Label
		if !step.Exhaustive {
			cmd += " --hint " + step.Hint
		}
		if i == 0 {
			b.WriteString(pad + cmd + "\n")
			continue
		}
		b.WriteString(pad + `if [ "$root" = "" ]; then` + "\n")
		b.WriteString(pad + "    " + cmd + "\n")
		b.WriteString(pad + "fi\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

type scriptWriter struct {
	buf *bytes.Buffer
}

func (w *scriptWriter) linef(depth int, format string, args ...interface{}) {
	w.buf.WriteString(strings.Repeat("    ", depth))
	fmt.Fprintf(w.buf, format, args...)
	w.buf.WriteByte('\n')
}

func (w *scriptWriter) blank() { w.buf.WriteByte('\n') }

// quote makes s safe inside a grub single-quoted string. Grub has no
// escape for a single quote, so it is dropped.
func quote(s string) string {
	return strings.ReplaceAll(s, "'", "")
}

// echoQuote makes s safe inside a grub double-quoted echo string.
func echoQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, ``)
	return strings.ReplaceAll(s, `"`, ``)
}

func (w *scriptWriter) helpEntry(tree *Tree, images []catalog.Image) {
	w.blank()
	w.linef(0, "menuentry 'Help & image information' {")
	w.linef(1, "clear")
	w.linef(1, `echo "LUXusb multiboot menu"`)
	w.linef(1, `echo ""`)
	w.linef(1, `echo "Up/Down selects, Enter boots, single letters jump to an image."`)
	w.linef(1, `echo "Each image opens a menu of boot modes:"`)
	w.linef(1, `echo "  Boot normally    - default kernel parameters"`)
	w.linef(1, `echo "  Safe graphics    - disables GPU drivers for broken displays"`)
	w.linef(1, `echo "  Load into RAM    - copies the image to memory first"`)
	w.linef(1, `echo ""`)
	w.linef(1, `echo "Images on this device:"`)
	for i := range tree.Roots {
		root := &tree.Roots[i]
		img := root.Submenu.Image
		w.linef(1, `echo "  %s (%s)"`, echoQuote(root.Label), humanize.Bytes(img.SizeBytes))
	}
	var unsigned []string
	for _, img := range images {
		if !img.Signed {
			unsigned = append(unsigned, img.Name)
		}
	}
	if len(unsigned) > 0 {
		w.linef(1, `echo ""`)
		w.linef(1, `echo "Not Secure Boot signed (disable Secure Boot to use):"`)
		for _, name := range unsigned {
			w.linef(1, `echo "  %s"`, echoQuote(name))
		}
	}
	w.linef(1, `echo ""`)
	w.linef(1, `echo "Press ESC to return to the menu."`)
	w.linef(1, "sleep --interruptible 9999")
	w.linef(0, "}")
}

func (w *scriptWriter) rootEntry(root *RootEntry, quirks Registry) {
	img := root.Submenu.Image
	w.blank()
	if root.Hotkey != 0 {
		w.linef(0, "submenu --hotkey=%c '%s' {", root.Hotkey, quote(root.Label))
	} else {
		w.linef(0, "submenu '%s' {", quote(root.Label))
	}
	w.linef(1, "# %s", img.Name)
	if img.Description != "" {
		w.linef(1, "# %s", img.Description)
	}
	w.linef(1, "# size: %s", humanize.Bytes(img.SizeBytes))
	if img.Architecture != "" {
		w.linef(1, "# architecture: %s", img.Architecture)
	}
	for i := range root.Submenu.Modes {
		w.modeEntry(&root.Submenu.Modes[i], quirks)
	}
	w.blank()
	w.linef(1, "menuentry '%s' {", quote(root.Submenu.ReturnLabel))
	w.linef(2, "true")
	w.linef(1, "}")
	w.linef(0, "}")
}

func (w *scriptWriter) modeEntry(mode *ModeEntry, quirks Registry) {
	w.blank()
	w.linef(1, "menuentry '%s' {", quote(mode.Label))

	// Everything the entry reads is assigned inside this block;
	// submenu-scope assignments are not reliably visible here.
	w.linef(2, `set isofile="%s"`, mode.Params.ImagePath)
	if quirks.ScopePerEntry {
		w.buf.WriteString(searchBlock(mode.Search, 2) + "\n")
	}

	if mode.Params.Mode == bootparam.ModeRAMLoad {
		w.ramLoadBody(mode)
	} else {
		w.loopbackBody(mode, quirks)
	}
	w.linef(1, "}")
}

func (w *scriptWriter) ramLoadBody(mode *ModeEntry) {
	cand := mode.Params.Candidates[0]
	w.linef(2, `if [ "$root" = "" ]; then`)
	w.linef(3, `echo "Data partition not found, cannot load image"`)
	w.linef(3, `echo "Press ESC to return to the menu."`)
	w.linef(3, "sleep --interruptible 9999")
	w.linef(2, "else")
	w.linef(3, `echo "Loading image into RAM, this can take a few minutes..."`)
	w.linef(3, "linux16 %s %s", cand.Kernel, strings.Join(cand.Args, " "))
	w.linef(3, `initrd16 "$isofile"`)
	w.linef(2, "fi")
}

func (w *scriptWriter) loopbackBody(mode *ModeEntry, quirks Registry) {
	if quirks.ReleaseLoopBeforeMount {
		// Unconditional release: the handle survives a previous menu
		// selection in the same session.
		w.linef(2, "loopback -d loop")
	}
	w.linef(2, `loopback loop "$isofile"`)

	var tried []string
	for i, cand := range mode.Params.Candidates {
		cond := "elif"
		if i == 0 {
			cond = "if"
		}
		if cand.ConfigFile != "" {
			w.linef(2, "%s [ -f (loop)%s ]; then", cond, cand.ConfigFile)
			w.linef(3, `set iso_path="$isofile"`)
			w.linef(3, "export iso_path")
			w.linef(3, "configfile (loop)%s", cand.ConfigFile)
			tried = append(tried, cand.ConfigFile)
			continue
		}
		w.linef(2, "%s [ -f (loop)%s ]; then", cond, cand.Kernel)
		w.linef(3, "linux (loop)%s %s", cand.Kernel, strings.Join(cand.Args, " "))
		w.linef(3, "initrd (loop)%s", cand.Initrd)
		tried = append(tried, cand.Kernel)
	}
	// A wrong family guess or a renamed kernel must end in a message,
	// never a silent hang.
	w.linef(2, "else")
	w.linef(3, `echo "No bootable kernel found in $isofile, tried:"`)
	for _, path := range tried {
		w.linef(3, `echo "  %s"`, path)
	}
	w.linef(3, `echo "Press ESC to return to the menu."`)
	w.linef(3, "sleep --interruptible 9999")
	w.linef(2, "fi")
}

func (w *scriptWriter) systemEntries() {
	w.blank()
	w.linef(0, "menuentry 'Restart' {")
	w.linef(1, "reboot")
	w.linef(0, "}")
	w.blank()
	w.linef(0, "menuentry 'Power off' {")
	w.linef(1, "halt")
	w.linef(0, "}")
}
