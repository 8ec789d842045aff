package flatconf

// Merge deep-merges (app, options) into tree and returns the result.
// Merging is key-wise: when both sides hold nested option groups at a
// key they merge recursively, otherwise the incoming value replaces the
// existing one. Keys present on only one side are kept. Existing entries
// keep their position; new keys append in arrival order.
//
// Merge is a left fold over its callers: entries applied later win on
// exact key collision.
func Merge(tree Tree, app Ident, options OptionList) Tree {
	for i := range tree {
		if tree[i].Name.Equal(app) {
			tree[i].Options = mergeOptions(tree[i].Options, options)
			return tree
		}
	}
	return append(tree, App{Name: app, Options: options})
}

// mergeOptions merges src into dst key-wise.
func mergeOptions(dst, src OptionList) OptionList {
	for _, s := range src {
		found := false
		for i := range dst {
			if !dst[i].Key.Equal(s.Key) {
				continue
			}
			found = true
			if dst[i].Value.IsNested() && s.Value.IsNested() {
				dst[i].Value = Nested(mergeOptions(dst[i].Value.Options(), s.Value.Options()))
			} else {
				dst[i].Value = s.Value
			}
			break
		}
		if !found {
			dst = append(dst, s)
		}
	}
	return dst
}
