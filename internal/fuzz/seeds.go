package fuzztests

import (
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB на запись корпуса
	maxFuzzInput = 1 << 16
)

var templateSeeds = []string{
	``,
	`<div></div>`,
	`<p>hello {{ name }}!</p>`,
	`<div :class="{ a: ok }" class="b" style="color: red" :style="s"></div>`,
	`<li v-for="(item, i) in items" :key="item.id" @click="pick(i)">{{ item.label }}</li>`,
	`<p v-if="a">a</p><p v-else-if="b">b</p><p v-else>c</p>`,
	`<template v-for="n in 3" :key="n"><span>{{ n }}</span></template>`,
	`<my-comp v-model="value"><template #header="{ title }">{{ title }}</template>body</my-comp>`,
	`<comp><template v-if="x" #a>a</template><template v-for="s in slots" #[s.name]>{{ s }}</template></comp>`,
	`<slot name="footer" :item="item">fallback</slot>`,
	`<component :is="view" v-bind="$attrs"></component>`,
	`<input v-model.trim="text" @keyup.enter.prevent="submit">`,
	`<div v-show="visible" v-custom:arg.mod="expr"></div>`,
	`<ul><li>1</li><li>2</li><li>3</li><li>4</li><li>5</li><li>6</li><li>7</li><li>8</li><li>9</li><li>10</li><li>11</li><li>12</li><li>13</li><li>14</li><li>15</li><li>16</li><li>17</li><li>18</li><li>19</li><li>20</li></ul>`,
	`<svg><circle :r="r"/></svg>`,
	`<pre>  keep   spaces  </pre><!-- comment -->`,
	`<div v-pre>{{ raw }}</div>`,
	`<Teleport to="body"><KeepAlive><div/></KeepAlive></Teleport>`,
	// незакрытые конструкции
	`<div`,
	`<div class="a`,
	`{{ unterminated`,
	`<p v-else>x</p>`,
	`</span>`,
	`<div :[key]="v" @[ev]="h"></div>`,
	`&amp;&lt;&#x41;&bogus;`,
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range templateSeeds {
		f.Add(clampSeed([]byte(s)))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
