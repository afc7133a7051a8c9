package confloader

import (
	"reflect"
	"strings"
)

// envKeyIndex maps the underscore form of every leaf key in target's
// koanf tags to its dotted path, e.g. "server_redis_read_buffer_size" to
// "server.redis.read_buffer_size".
func envKeyIndex(target any) map[string]string {
	index := make(map[string]string)
	if target == nil {
		return index
	}
	collectKeys(reflect.TypeOf(target), "", index)
	return index
}

func collectKeys(t reflect.Type, prefix string, index map[string]string) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := strings.Split(f.Tag.Get("koanf"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && ft.PkgPath() != "time" {
			collectKeys(ft, key, index)
			continue
		}
		index[strings.ReplaceAll(key, ".", "_")] = key
	}
}
